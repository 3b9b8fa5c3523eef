// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, options, allowVoteChange, showInstantResult
  - VoteRequest: optionId
  - CredentialsRequest: userId, password

# Response Types

Types for JSON responses:

  - ListPollsResponse: polls, totalPolls, totalPages, currentPage
  - DashboardResponse: polls
  - SignupResponse, LoginResponse
  - ErrorResponse: error, message, code

# Domain Types

  - Poll: title, options, creator, vote-change policy and the ballot set
  - Option: choice label with its cached vote count
  - Ballot: one voter's current choice; at most one per voter per poll
  - Analytics: title, total votes and per-option tallies
  - User: registered identity with a bcrypt password hash

# Errors

Error kinds are sentinel values checked with errors.Is:

	ErrInvalidInput
	ErrNotFound
	ErrInvalidOption
	ErrVoteChangeNotAllowed
	ErrStorageConflict

ErrorCode returns the kind name reported in ErrorResponse.Code.
*/
package models
