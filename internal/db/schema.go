package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Calendar dates are stored as YYYY-MM-DD text so they round-trip as strings.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'viewer' CHECK (role IN ('admin', 'officer', 'viewer')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS consignments (
    id               INTEGER PRIMARY KEY,
    code             TEXT NOT NULL UNIQUE,
    importer         TEXT NOT NULL DEFAULT '',
    examination_date TEXT NOT NULL,
    status           TEXT NOT NULL DEFAULT 'held' CHECK (status IN ('held', 'partial', 'released')),
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS held_items (
    id                  INTEGER PRIMARY KEY,
    consignment_id      INTEGER NOT NULL REFERENCES consignments(id),
    description         TEXT NOT NULL,
    hs_code             TEXT NOT NULL,
    quantity            REAL NOT NULL CHECK (quantity > 0),
    quantity_unit       TEXT NOT NULL,
    total_quantity      REAL,
    total_quantity_unit TEXT NOT NULL DEFAULT '',
    hold_reason         TEXT NOT NULL,
    warehouse           TEXT NOT NULL,
    section             TEXT NOT NULL DEFAULT '',
    shelf               TEXT NOT NULL DEFAULT '',
    currency            TEXT NOT NULL DEFAULT '',
    item_value          REAL,
    hold_duration       TEXT NOT NULL DEFAULT '',
    notes               TEXT NOT NULL DEFAULT '',
    status              TEXT NOT NULL DEFAULT 'held' CHECK (status IN ('held', 'released')),
    photo               BLOB,
    photo_mime          TEXT,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS item_identifiers (
    id           INTEGER PRIMARY KEY,
    held_item_id INTEGER NOT NULL REFERENCES held_items(id),
    identifier   TEXT NOT NULL,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS release_records (
    id                  INTEGER PRIMARY KEY,
    held_item_id        INTEGER NOT NULL UNIQUE REFERENCES held_items(id),
    batch_id            TEXT NOT NULL,
    release_date        TEXT NOT NULL,
    release_reference   TEXT NOT NULL,
    release_reason      TEXT NOT NULL,
    authorizing_officer TEXT NOT NULL,
    notes               TEXT NOT NULL DEFAULT '',
    released_by         INTEGER REFERENCES users(id),
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
