// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package memstore is an in-memory poll and user store for development and
tests. It satisfies both polls.Repository and auth.UserStore.

# Usage

	store := memstore.New()
	service := polls.NewService(store)
	accounts := auth.NewAccounts(store, tokens, bcrypt.DefaultCost)

Select it at startup with -t memory (DATABASE_TYPE=memory). Nothing is
persisted across restarts.

# Locking

Each poll has its own sync.RWMutex. The store-wide mutex guards only the
poll and user maps, so a slow update on one poll never blocks another.

  - Get and List take the poll's read lock
  - Update holds the poll's write lock across the whole mutation

Concurrent votes on one poll run one at a time and never fail with
models.ErrStorageConflict.

# Copies

Polls are cloned on the way in and on the way out. Callers may mutate a
returned poll freely; a mutation that returns an error is discarded and the
stored poll and its revision stay unchanged.

# Listing

List sorts newest first (ties broken by ID), filters by creator and
case-insensitive title substring, and pages with PollFilter.Page and
PageSize. A PageSize of zero returns every match, and a page past the end
is empty.
*/
package memstore
