package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Cached copy of session records for this device. The payload column
	// holds the full serialized record; the remaining columns exist so
	// list views and the resolver can read without deserializing.
	`CREATE TABLE IF NOT EXISTS cached_sessions (
		session_id  TEXT PRIMARY KEY,
		name        TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'draft'
		            CHECK(status IN ('draft','planned','active','completed')),
		event_count INTEGER NOT NULL DEFAULT 0,
		updated_at  TEXT NOT NULL,
		payload     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cached_sessions_updated ON cached_sessions(updated_at)`,

	// Uncommitted local changes awaiting remote acknowledgement.
	// At most one row per session id (enforced by the queue manager,
	// backed by the unique index).
	`CREATE TABLE IF NOT EXISTS pending_changes (
		change_id   TEXT PRIMARY KEY,
		action      TEXT NOT NULL CHECK(action IN ('upsert','delete')),
		session_id  TEXT NOT NULL,
		payload     TEXT,
		created_at  TEXT NOT NULL,
		retry_count INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_pending_changes_session ON pending_changes(session_id)`,
}
