package db

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order on every open; each statement is
// idempotent so re-running the full list is safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS session_progress (
		topic_id     TEXT NOT NULL,
		session_id   TEXT NOT NULL,
		started      INTEGER NOT NULL DEFAULT 0,
		completed    INTEGER NOT NULL DEFAULT 0,
		started_at   TEXT,
		completed_at TEXT,
		PRIMARY KEY (topic_id, session_id)
	)`,
	// started_at is the first start (what the UI shows); recent_at is
	// the latest start and orders the list.
	`CREATE TABLE IF NOT EXISTS recent_sessions (
		id            TEXT PRIMARY KEY,
		topic_id      TEXT NOT NULL,
		session_id    TEXT NOT NULL,
		session_title TEXT NOT NULL,
		topic_title   TEXT NOT NULL,
		started_at    TEXT NOT NULL,
		recent_at     TEXT NOT NULL,
		UNIQUE (topic_id, session_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recent_sessions_recent_at
		ON recent_sessions(recent_at DESC)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
