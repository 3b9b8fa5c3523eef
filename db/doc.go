// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores polls and users in PostgreSQL or SQLite.

# Connecting

Open selects the driver by type and pings the database:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "polls.db")

SQLite connections enable foreign keys, WAL, a busy timeout and IMMEDIATE
transactions, and are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: user ID and bcrypt password hash
  - poll: poll metadata and a revision counter
  - option: options per poll, in creation order, with a cached vote_count
  - ballot: one row per voter per poll

	poll 1──* option
	poll 1──* ballot
	option 1──* ballot

All foreign keys use ON DELETE CASCADE. Timestamps are Unix microseconds.

# Concurrency

Store.Update reads, mutates and writes a poll inside one transaction. The
poll is locked before it is read: SQLite connections begin transactions
IMMEDIATE, and PostgreSQL selects the poll row FOR UPDATE. Writers on the
same poll therefore queue, and votes from different voters never conflict.

Every write also checks and bumps poll.revision. If that check fails,
Update backs off with jitter and retries; after maxAttempts it fails with
models.ErrStorageConflict. The ballot primary key rejects a second ballot
for the same voter.
*/
package db
