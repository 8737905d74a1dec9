package inventory

// CheckResult is the outcome of the most recent verification of a tracked file.
type CheckResult string

const (
	// ResultOK means the content matched, or the change was a legitimate edit.
	ResultOK CheckResult = "OK"
	// ResultKO means the content changed while the modification time did not.
	ResultKO CheckResult = "KO"
)

// TrackedFile is one inventory record.
// Column names are kept from the original on-disk schema so existing inventories open unchanged.
type TrackedFile struct {
	// ID is a UUID assigned at creation and never changed.
	ID string `gorm:"column:ID;primaryKey" json:"id"`
	// Name is the base name of the file.
	Name string `gorm:"column:NAME" json:"name"`
	// Path is the slash-separated path relative to the scan root.
	// The column is named ABSOLUTE_PATH for compatibility but always holds the relative form.
	Path string `gorm:"column:ABSOLUTE_PATH" json:"path"`
	// LastModificationDate is the normalized mtime observed when the hash was taken.
	LastModificationDate string `gorm:"column:LAST_MODIFICATION_DATE" json:"last_modification_date"`
	// LastCheckDate is the normalized time of the most recent run that looked at the file.
	LastCheckDate string `gorm:"column:LAST_CHECK_DATE" json:"last_check_date"`
	// HashValue is the lowercase hex content digest.
	HashValue string `gorm:"column:HASH_SUM_VALUE" json:"hash_value"`
	// HashAlgorithm names the digest algorithm, always SHA-512.
	HashAlgorithm string `gorm:"column:HASH_SUM_ALGORITHM" json:"hash_algorithm"`
	// Size is the file size in bytes. Zero in records written before sizes were tracked.
	Size int64 `gorm:"column:SIZE" json:"size"`
	// LastCheckResult is OK or KO.
	LastCheckResult CheckResult `gorm:"column:LAST_CHECK_RESULT" json:"last_check_result"`
}

// TableName overrides the table name used by TrackedFile.
func (TrackedFile) TableName() string {
	return "FILE"
}

// SystemItem is a key/value pair of inventory metadata.
type SystemItem struct {
	Key   string `gorm:"column:KEY;primaryKey" json:"key"`
	Value string `gorm:"column:VALUE" json:"value"`
}

// TableName overrides the table name used by SystemItem.
func (SystemItem) TableName() string {
	return "SYSTEM_ITEM"
}

// SchemaMigration records one applied schema migration.
type SchemaMigration struct {
	Version     int    `gorm:"column:VERSION;primaryKey;autoIncrement:false"`
	Name        string `gorm:"column:NAME"`
	InstalledBy string `gorm:"column:INSTALLED_BY"`
	InstalledOn string `gorm:"column:INSTALLED_ON"`
}

// TableName overrides the table name used by SchemaMigration.
func (SchemaMigration) TableName() string {
	return "DB_MIGRATION_SCHEMA_HISTORY"
}
