package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent, so
// the full list re-runs on each startup.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Single-row bearer-token store for the generation backend.
	`CREATE TABLE IF NOT EXISTS credentials (
		id         TEXT PRIMARY KEY DEFAULT 'default',
		token      TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	)`,

	// Local mirror of the wizard conversation. The backend owns the
	// authoritative history; this copy survives restarts so the TUI can
	// replay the conversation without a network round trip.
	`CREATE TABLE IF NOT EXISTS transcript_messages (
		id         TEXT PRIMARY KEY,
		role       TEXT NOT NULL
		           CHECK(role IN ('user','assistant')),
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_transcript_created ON transcript_messages(created_at)`,
}
