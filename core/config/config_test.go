package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Check.Dir)
	assert.False(t, cfg.Check.Report)
	assert.False(t, cfg.Check.WriteIndex)
	assert.False(t, cfg.Check.MigrateLegacy)
	assert.False(t, cfg.Check.Archive)
	assert.Equal(t, 100, cfg.Check.BatchSize)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Server.ApiKey)
	assert.Equal(t, 30, cfg.Server.CacheTTLSeconds)

	assert.Equal(t, "bitbackup", cfg.Storage.Bucket)
	assert.Equal(t, 30, cfg.Storage.TimeoutSeconds)

	assert.Equal(t, 5000, cfg.Database.BusyTimeoutMillis)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)

	assert.Empty(t, cfg.Metrics.PushgatewayURL)

	assert.Equal(t, "localhost:6379", cfg.Schedule.RedisAddr)
	assert.Equal(t, "@daily", cfg.Schedule.Cron)
	assert.Equal(t, "checks", cfg.Schedule.Queue)
	assert.Equal(t, 3, cfg.Schedule.MaxRetry)
	assert.Empty(t, cfg.Schedule.DirList())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("CHECK_DIR", "/srv/archive")
	t.Setenv("CHECK_REPORT", "true")
	t.Setenv("CHECK_BATCH_SIZE", "25")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SCHEDULE_DIRS", "/a, /b,,")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/srv/archive", cfg.Check.Dir)
	assert.True(t, cfg.Check.Report)
	assert.Equal(t, 25, cfg.Check.BatchSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Schedule.DirList())
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9090\nSTORAGE_PREFIX=nas\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("STORAGE_PREFIX")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "nas", cfg.Storage.Prefix)
}
