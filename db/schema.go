// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are unix nanoseconds so SQLite and PostgreSQL round-trip them
// identically.
const schema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id BIGINT PRIMARY KEY,
    title TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    end_time BIGINT NOT NULL CHECK (end_time > created_at),
    owner_closed BOOLEAN NOT NULL DEFAULT FALSE,
    closed_at BIGINT
);

-- Options
CREATE TABLE IF NOT EXISTS poll_option (
    poll_id BIGINT NOT NULL REFERENCES poll(id),
    idx INTEGER NOT NULL CHECK (idx >= 0),
    label TEXT NOT NULL,
    PRIMARY KEY (poll_id, idx),
    UNIQUE (poll_id, label)
);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    poll_id BIGINT NOT NULL REFERENCES poll(id),
    voter TEXT NOT NULL,
    option_idx INTEGER NOT NULL,
    cast_at BIGINT NOT NULL,
    PRIMARY KEY (poll_id, voter),
    FOREIGN KEY (poll_id, option_idx) REFERENCES poll_option(poll_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id);
`
