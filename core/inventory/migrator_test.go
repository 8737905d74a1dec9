package inventory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bitbackup/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openRaw(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Path: filepath.Join(t.TempDir(), ".bitbackup.sqlite3")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestMigrator_FreshInventory(t *testing.T) {
	db := openRaw(t)
	m := NewMigrator(db, zap.NewNop(), "test")

	require.NoError(t, m.Migrate(context.Background()))

	applied, err := m.Applied(context.Background())
	require.NoError(t, err)
	assert.Len(t, applied, len(Migrations()))
	assert.Equal(t, 1, applied[0].Version)
	assert.Equal(t, "test", applied[0].InstalledBy)

	for _, col := range []string{"ID", "NAME", "ABSOLUTE_PATH", "SIZE", "LAST_CHECK_RESULT"} {
		ok, err := database.HasColumn(db, "FILE", col)
		require.NoError(t, err)
		assert.True(t, ok, col)
	}
}

func TestMigrator_Idempotent(t *testing.T) {
	db := openRaw(t)
	m := NewMigrator(db, zap.NewNop(), "test")
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx))
	require.NoError(t, m.Migrate(ctx))

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, len(Migrations()))
}

func TestMigrator_UpgradesUntrackedLegacyTable(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()

	// An inventory written before sizes and results were stored, with no history table.
	require.NoError(t, db.Exec(`CREATE TABLE FILE (
		ID TEXT NOT NULL PRIMARY KEY,
		NAME TEXT NOT NULL,
		ABSOLUTE_PATH TEXT NOT NULL,
		LAST_MODIFICATION_DATE TEXT NOT NULL,
		LAST_CHECK_DATE TEXT,
		HASH_SUM_VALUE TEXT NOT NULL,
		HASH_SUM_ALGORITHM TEXT NOT NULL
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO FILE VALUES ('1', 'a.txt', 'a.txt', '2023-01-01T00:00:00.000Z', NULL, 'aa', 'SHA-512')`).Error)

	require.NoError(t, NewMigrator(db, zap.NewNop(), "test").Migrate(ctx))

	got, err := NewFileRepository(db, 0).FindByPath(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Size)
	assert.Equal(t, ResultOK, got.LastCheckResult)
	assert.Equal(t, "2023-01-01T00:00:00.000Z", got.LastCheckDate)
}

func TestMigrator_FailureRollsBackStep(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()

	m := NewMigrator(db, zap.NewNop(), "test")
	m.migrations = append(Migrations(), Migration{
		Version: 99,
		Name:    "broken",
		Up: func(tx *gorm.DB) error {
			if err := tx.Exec("CREATE TABLE half_done (id INTEGER)").Error; err != nil {
				return err
			}
			return tx.Exec("THIS IS NOT SQL").Error
		},
	})

	err := m.Migrate(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaMigrationFailed))
	assert.False(t, db.Migrator().HasTable("half_done"))

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, len(Migrations()))
}
