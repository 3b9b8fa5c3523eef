// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Poll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(service, accounts, tokens)

# Endpoints

Health:

	GET /health

Accounts (public):

	POST /users/signup - Register a user
	POST /users/login  - Exchange credentials for a bearer token

Polls (Authorization: Bearer <token>):

	POST /polls                - Create poll
	GET  /polls                - Paginated list (?page=&limit=)
	GET  /polls/search         - Title search (?query=)
	GET  /polls/dashboard      - Caller's own polls
	GET  /polls/{id}           - Poll with options, ballots and counts
	POST /polls/{id}/vote      - Cast or change the caller's vote
	GET  /polls/{id}/analytics - Title, total votes and per-option counts

The literal segments /polls/search and /polls/dashboard take precedence
over /polls/{id}.
*/
package router
