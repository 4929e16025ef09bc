package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: lookups by consignment and status back the release search
	// and the dashboard counts.
	`CREATE INDEX IF NOT EXISTS idx_held_items_consignment_status
	     ON held_items(consignment_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_item_identifiers_item
	     ON item_identifiers(held_item_id)`,
	// Migration 2: history is listed newest first.
	`CREATE INDEX IF NOT EXISTS idx_consignments_created
	     ON consignments(created_at DESC)`,
}

// Migrate creates the schema and runs the database migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
