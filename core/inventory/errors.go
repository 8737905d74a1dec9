package inventory

import "errors"

var (
	// ErrSchemaMigrationFailed is returned when the inventory schema cannot be brought up to date.
	ErrSchemaMigrationFailed = errors.New("schema migration failed")
	// ErrStoreWriteFailed is returned when an insert, update or delete against the inventory fails.
	ErrStoreWriteFailed = errors.New("store write failed")
	// ErrNotFound is returned by single-record lookups.
	ErrNotFound = errors.New("record not found")
)
