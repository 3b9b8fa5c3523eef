// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Poll API.

# Handler Types

  - PollHandler: poll creation, listing, search, dashboard, voting, analytics
  - UserHandler: signup and login

Handlers are created via constructor functions that accept their service:

	pollHandler := handlers.NewPollHandler(service)
	userHandler := handlers.NewUserHandler(accounts)

# Identity

Poll handlers read the caller from the request context, where
middleware.RequireAuth puts it. The voter of a ballot and the creator of a
poll are always the authenticated user, never a request field.

# Errors

Service errors go through middleware.ErrorFromErr:

	InvalidInput, InvalidOption, VoteChangeNotAllowed → 400
	NotFound                                          → 404
	StorageConflict                                   → 409
	anything else                                     → 500
*/
package handlers
