package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches one row of PRAGMA table_info.
type ColumnInfo struct {
	Field      string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// GetTableColumns retrieves the column definitions for a given table.
// Names and types are lowercased. A missing table yields no columns and no error.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	type sqliteColumn struct {
		Cid       int
		Name      string
		Type      string
		Notnull   int
		DfltValue *string
		Pk        int
	}

	var rows []sqliteColumn
	query := fmt.Sprintf("PRAGMA table_info('%s')", strings.ReplaceAll(tableName, "'", "''"))
	if err := db.Raw(query).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, col := range rows {
		columns = append(columns, ColumnInfo{
			Field:      strings.ToLower(col.Name),
			Type:       strings.ToLower(col.Type),
			NotNull:    col.Notnull == 1,
			PrimaryKey: col.Pk > 0,
		})
	}
	return columns, nil
}

// HasColumn reports whether tableName has a column named column (case-insensitive).
func HasColumn(db *gorm.DB, tableName, column string) (bool, error) {
	columns, err := GetTableColumns(db, tableName)
	if err != nil {
		return false, err
	}
	for _, c := range columns {
		if c.Field == strings.ToLower(column) {
			return true, nil
		}
	}
	return false, nil
}
