package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("EmptyPath", func(t *testing.T) {
		db, err := Connect(Config{})
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("CreatesFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".bitbackup.sqlite3")

		db, err := Connect(Config{Path: path})
		require.NoError(t, err)
		require.NoError(t, db.Exec("CREATE TABLE t (id INTEGER)").Error)
		require.NoError(t, Close(db))

		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("ReadOnlyRejectsWrites", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".bitbackup.sqlite3")
		db, err := Connect(Config{Path: path})
		require.NoError(t, err)
		require.NoError(t, db.Exec("CREATE TABLE t (id INTEGER)").Error)
		require.NoError(t, Close(db))

		ro, err := Connect(Config{Path: path, ReadOnly: true})
		require.NoError(t, err)
		defer Close(ro)

		var count int64
		assert.NoError(t, ro.Raw("SELECT COUNT(*) FROM t").Scan(&count).Error)
		assert.Error(t, ro.Exec("INSERT INTO t (id) VALUES (1)").Error)
	})

	t.Run("ReadOnlyMissingFile", func(t *testing.T) {
		db, err := Connect(Config{Path: filepath.Join(t.TempDir(), "absent.sqlite3"), ReadOnly: true})
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:", DSN(Config{Path: MemoryPath}))

	dsn := DSN(Config{Path: "/data/my archive/.bitbackup.sqlite3", ReadOnly: true})
	assert.True(t, strings.HasPrefix(dsn, "file:///data/my%20archive/.bitbackup.sqlite3?"))
	assert.Contains(t, dsn, "mode=ro")
	assert.Contains(t, dsn, "_busy_timeout=5000")

	assert.NotContains(t, DSN(Config{Path: "/x.sqlite3"}), "mode=ro")
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
