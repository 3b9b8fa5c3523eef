// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrInvalidOption        = errors.New("invalid option")
	ErrVoteChangeNotAllowed = errors.New("vote change not allowed")
	// ErrStorageConflict is the only retryable kind.
	ErrStorageConflict = errors.New("storage conflict")

	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// ErrorCode maps an error to its kind name for API responses.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInvalidOption):
		return "InvalidOption"
	case errors.Is(err, ErrVoteChangeNotAllowed):
		return "VoteChangeNotAllowed"
	case errors.Is(err, ErrStorageConflict):
		return "StorageConflict"
	case errors.Is(err, ErrUserExists):
		return "UserExists"
	case errors.Is(err, ErrInvalidCredentials):
		return "InvalidCredentials"
	case errors.Is(err, ErrInvalidToken):
		return "InvalidToken"
	}
	return ""
}
