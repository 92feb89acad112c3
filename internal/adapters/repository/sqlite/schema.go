// Package sqlite stores polls, responses and result snapshots in a single
// SQLite file through the pure Go modernc driver.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the database at path and ensures the schema exists.
// Use ":memory:" for a throwaway database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateSchema creates all tables. Safe to call multiple times.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// timestamps are stored as unix microseconds so ORDER BY is chronological
const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS polls (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at);

CREATE TABLE IF NOT EXISTS poll_questions (
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    text TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('multiple_choice', 'text', 'rating')),
    options TEXT NOT NULL DEFAULT '[]',
    PRIMARY KEY (poll_id, position)
);

CREATE TABLE IF NOT EXISTS responses (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    respondent_name TEXT NOT NULL,
    answers TEXT NOT NULL,
    submitted_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_responses_poll_id ON responses(poll_id, seq);

CREATE TABLE IF NOT EXISTS poll_results (
    poll_id TEXT PRIMARY KEY REFERENCES polls(id) ON DELETE CASCADE,
    summary TEXT NOT NULL,
    computed_at INTEGER NOT NULL
);
`
