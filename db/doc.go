// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and the SQL
journal behind the poll store.

# Connecting

Open picks the driver from the database type, pings and creates the schema:

	conn, err := db.Open(db.TypeSQLite, "file:ballotbox.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite (modernc.org/sqlite, no cgo) is the default; PostgreSQL goes through
github.com/lib/pq. CreateSchema is safe to call multiple times - it uses
IF NOT EXISTS for all tables and indexes.

# Tables

  - poll: title, creation and end time, owner-closed flag
  - poll_option: option labels by index
  - vote: one row per (poll, voter)

# Relationships

	poll 1──* poll_option
	poll 1──* vote
	poll_option 1──* vote

# Journal

Journal implements pollstore.Journal. Replaying it rebuilds the store:

	store, err := pollstore.Open(ctx, admin, db.NewJournal(conn))
*/
package db
