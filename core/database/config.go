package database

// Config holds configuration for the SQLite inventory connection.
type Config struct {
	// BusyTimeoutMillis is how long SQLite waits on a locked database file.
	BusyTimeoutMillis int `mapstructure:"busy_timeout_ms" default:"5000"`
	// MaxOpenConns caps the pool. The inventory is single-writer, so one is enough.
	MaxOpenConns int `mapstructure:"max_open_conns" default:"1"`

	// Path is the database file, or ":memory:". Set per run from the scan root.
	Path string
	// ReadOnly opens the file with mode=ro.
	ReadOnly bool
}
