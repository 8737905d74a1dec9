package database

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Connect opens the SQLite inventory at cfg.Path.
// The file is created on first use unless ReadOnly is set.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	// Suppress GORM logging, callers log through zap
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(DSN(cfg)), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Path, err)
	}

	return db, nil
}

// DSN builds the go-sqlite3 connection string for cfg.
func DSN(cfg Config) string {
	if cfg.Path == MemoryPath {
		return MemoryPath
	}

	timeout := cfg.BusyTimeoutMillis
	if timeout <= 0 {
		timeout = 5000
	}

	q := url.Values{}
	q.Set("_busy_timeout", strconv.Itoa(timeout))
	if cfg.ReadOnly {
		q.Set("mode", "ro")
	}

	path := cfg.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = filepath.ToSlash(abs)
	}

	u := url.URL{Scheme: "file", Path: path, RawQuery: q.Encode()}
	return u.String()
}

// Close releases the underlying connection pool. The store file is fully written
// once Close returns, so its digest can be taken afterwards.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
