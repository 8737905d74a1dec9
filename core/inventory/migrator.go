package inventory

import (
	"context"
	"fmt"
	"time"

	"bitbackup/core/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migration is one versioned schema step. Up runs inside a transaction together
// with the history row that records it.
type Migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

// Migrations returns the inventory schema history in order.
// Steps are written to also upgrade inventories created before history was recorded.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_file_table", Up: func(tx *gorm.DB) error {
			return tx.Exec(`CREATE TABLE IF NOT EXISTS FILE (
				ID TEXT NOT NULL PRIMARY KEY,
				NAME TEXT NOT NULL,
				ABSOLUTE_PATH TEXT NOT NULL,
				LAST_MODIFICATION_DATE TEXT NOT NULL,
				LAST_CHECK_DATE TEXT,
				HASH_SUM_VALUE TEXT NOT NULL,
				HASH_SUM_ALGORITHM TEXT NOT NULL
			)`).Error
		}},
		{Version: 2, Name: "create_system_item_table", Up: func(tx *gorm.DB) error {
			return tx.Exec(`CREATE TABLE IF NOT EXISTS SYSTEM_ITEM (
				"KEY" TEXT NOT NULL PRIMARY KEY,
				VALUE TEXT
			)`).Error
		}},
		{Version: 3, Name: "add_file_size", Up: addColumnIfMissing("FILE", "SIZE", "INTEGER NOT NULL DEFAULT 0")},
		{Version: 4, Name: "add_file_last_check_result", Up: addColumnIfMissing("FILE", "LAST_CHECK_RESULT", "TEXT NOT NULL DEFAULT 'OK'")},
		{Version: 5, Name: "unique_file_path", Up: func(tx *gorm.DB) error {
			return tx.Exec("CREATE UNIQUE INDEX IF NOT EXISTS IDX_FILE_ABSOLUTE_PATH ON FILE (ABSOLUTE_PATH)").Error
		}},
		{Version: 6, Name: "backfill_null_check_date", Up: func(tx *gorm.DB) error {
			return tx.Exec("UPDATE FILE SET LAST_CHECK_DATE = LAST_MODIFICATION_DATE WHERE LAST_CHECK_DATE IS NULL").Error
		}},
	}
}

func addColumnIfMissing(table, column, definition string) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		exists, err := database.HasColumn(tx, table, column)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		return tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)).Error
	}
}

// Migrator applies pending migrations to one inventory.
type Migrator struct {
	db          *gorm.DB
	logger      *zap.Logger
	migrations  []Migration
	installedBy string
	now         func() time.Time
}

// NewMigrator creates a migrator for db with the default migration list.
func NewMigrator(db *gorm.DB, logger *zap.Logger, installedBy string) *Migrator {
	return &Migrator{
		db:          db,
		logger:      logger,
		migrations:  Migrations(),
		installedBy: installedBy,
		now:         time.Now,
	}
}

// Migrate applies every migration not yet recorded in the history table.
// Any failure is wrapped in ErrSchemaMigrationFailed; the failing step is rolled back.
func (m *Migrator) Migrate(ctx context.Context) error {
	db := m.db.WithContext(ctx)

	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("%w: create history table: %w", ErrSchemaMigrationFailed, err)
	}

	applied, err := m.Applied(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaMigrationFailed, err)
	}
	done := make(map[int]struct{}, len(applied))
	for _, a := range applied {
		done[a.Version] = struct{}{}
	}

	for _, mig := range m.migrations {
		if _, ok := done[mig.Version]; ok {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{
				Version:     mig.Version,
				Name:        mig.Name,
				InstalledBy: m.installedBy,
				InstalledOn: m.now().UTC().Format(time.RFC3339),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("%w: %03d_%s: %w", ErrSchemaMigrationFailed, mig.Version, mig.Name, err)
		}

		m.logger.Info("Applied schema migration",
			zap.Int("version", mig.Version),
			zap.String("name", mig.Name),
		)
	}

	return nil
}

// Applied returns the recorded migrations ordered by version.
func (m *Migrator) Applied(ctx context.Context) ([]SchemaMigration, error) {
	var applied []SchemaMigration
	if err := m.db.WithContext(ctx).Order("VERSION").Find(&applied).Error; err != nil {
		return nil, fmt.Errorf("failed to read migration history: %w", err)
	}
	return applied, nil
}
