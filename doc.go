// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Poll API server.

Quickly Poll is a single-choice polling service. Users sign up, create polls
with a list of options, and cast one vote per poll. Vote counts are always
derived from the stored ballots, so totals stay exact under concurrent
voting.

# Starting the Server

The server reads a .env file, environment variables, and CLI flags:

	JWT_SECRET=dev DATABASE_URL=polls.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret dev

For a throwaway instance with no database:

	go run . -t memory -jwt-secret dev

# Configuration

Required settings:

  - JWT_SECRET (--jwt-secret): token signing secret
  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string,
    not needed with -t memory

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or memory (default: sqlite)
  - TOKEN_TTL, BCRYPT_COST, MAX_VOTE_RETRIES, LOG_LEVEL, LOG_FORMAT

# Architecture

  - handlers: HTTP request handlers (polls, users)
  - router: Route definitions using Go 1.22+ routing
  - middleware: bearer auth, CORS, logging, JSON and error helpers
  - models: domain types, request/response types, error kinds
  - polls: poll store service (create, vote, list, search, analytics)
  - tally: pure vote counting
  - db: SQL storage with optimistic per-poll concurrency
  - memstore: in-memory storage with per-poll locks
  - auth: password hashing and signed tokens
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
