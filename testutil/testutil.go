// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/polls"
)

// TestJWTSecret signs tokens issued by NewTestTokens.
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh SQLite database with the full schema in the
// test's temp directory. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "polls.db")
	conn, err := db.Open(db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a SQL-backed store over a fresh test database.
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(SetupTestDB(t), db.TypeSQLite, db.DefaultMaxAttempts)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseType:   cliparse.DatabaseMemory,
		JWTSecret:      TestJWTSecret,
		TokenTTL:       time.Hour,
		BcryptCost:     4,
		MaxVoteRetries: db.DefaultMaxAttempts,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// NewTestTokens returns a token issuer using TestJWTSecret.
func NewTestTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	tokens, err := auth.NewTokens(TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create tokens: %v", err)
	}
	return tokens
}

// AuthHeader returns an Authorization header carrying a token for userID.
func AuthHeader(t *testing.T, tokens *auth.Tokens, userID string) map[string]string {
	t.Helper()
	token, err := tokens.Issue(userID)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// CreateTestPoll creates a poll owned by createdBy with the given options.
func CreateTestPoll(t *testing.T, service *polls.Service, createdBy, title string, allowVoteChange bool, options ...string) models.Poll {
	t.Helper()

	poll, err := service.CreatePoll(context.Background(), models.CreatePollInput{
		Title:           title,
		Options:         options,
		CreatedBy:       createdBy,
		AllowVoteChange: allowVoteChange,
	})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// OptionID returns the ID of the option with the given text.
func OptionID(t *testing.T, poll models.Poll, text string) string {
	t.Helper()
	for _, opt := range poll.Options {
		if opt.Text == text {
			return opt.ID
		}
	}
	t.Fatalf("Poll %s has no option %q", poll.ID, text)
	return ""
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
