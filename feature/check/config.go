package check

import "bitbackup/core/inventory"

// Config holds configuration for a check run.
type Config struct {
	// Dir is the scan root.
	Dir string `mapstructure:"dir" default:"."`
	// Report writes the bit rot report after the run.
	Report bool `mapstructure:"report" default:"false"`
	// WriteIndex writes the filesystem metadata index after the run.
	WriteIndex bool `mapstructure:"write_index" default:"false"`
	// MigrateLegacy renames files left by earlier product names before the run.
	MigrateLegacy bool `mapstructure:"migrate_legacy" default:"false"`
	// BatchSize caps the number of records per store write.
	BatchSize int `mapstructure:"batch_size" default:"100"`
	// Archive uploads the store, its digest and the report to object storage.
	Archive bool `mapstructure:"archive" default:"false"`
}

// EffectiveBatchSize returns BatchSize, falling back to the inventory default.
func (c Config) EffectiveBatchSize() int {
	if c.BatchSize <= 0 {
		return inventory.DefaultBatchSize
	}
	return c.BatchSize
}
