// Package database handles SQLite connections and schema inspection.
//
// It wraps GORM with the go-sqlite3 driver. Every scan root carries its own
// inventory file, so Connect takes the path per run instead of from global config.
//
// # Connect
//
// Connect opens (and creates) the inventory file. ReadOnly connections use
// SQLite's mode=ro and fail if the file does not exist; the HTTP API uses them so
// it can never mutate an inventory.
//
// # Schema Inspection
//
// GetTableColumns and HasColumn read PRAGMA table_info. The inventory migrator uses
// them to upgrade inventories written by older versions.
//
// # Usage
//
//	db, err := database.Connect(database.Config{Path: layout.Store})
//	if err != nil {
//	    return err
//	}
//	defer database.Close(db)
package database
