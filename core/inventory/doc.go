// Package inventory owns the persistent record of every tracked file.
//
// The inventory lives in a SQLite file inside the scan root and is accessed through
// GORM. It holds two tables:
//   - FILE: one TrackedFile per path, with its hash, mtime, size and last result
//   - SYSTEM_ITEM: key/value metadata such as the product version marker
//
// # Repositories
//
// FileRepository and SystemItemRepository wrap all reads and writes. Bulk writes are
// split into batches of at most DefaultBatchSize records; each batch commits on its own
// and earlier batches stay committed if a later one fails. Write failures wrap
// ErrStoreWriteFailed.
//
// # Migrations
//
// Migrator applies versioned schema steps recorded in DB_MIGRATION_SCHEMA_HISTORY.
// Failures wrap ErrSchemaMigrationFailed and leave no partial step behind.
package inventory
