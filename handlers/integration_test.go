// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/polls"
	"github.com/danielhkuo/quickly-poll/testutil"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Users sign up and log in
// 2. Alice creates a poll
// 3. Three users vote
// 4. A vote change is rejected
// 5. Poll, analytics and dashboard agree
func TestFullVotingWorkflow(t *testing.T) {
	store := db.NewStore(testutil.SetupTestDB(t), db.TypeSQLite, db.DefaultMaxAttempts)
	tokens := testutil.NewTestTokens(t)
	accounts := auth.NewAccounts(store, tokens, bcrypt.MinCost)
	service := polls.NewService(store)

	userHandler := NewUserHandler(accounts)
	pollHandler := NewPollHandler(service)

	serve := func(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		middleware.RequireAuth(tokens, h)(w, req)
		return w
	}

	// Step 1: sign up and log in
	bearer := map[string]map[string]string{}
	for _, user := range []string{"alice", "u1", "u2", "u3"} {
		creds := models.CredentialsRequest{UserID: user, Password: "pw-" + user}

		w := httptest.NewRecorder()
		userHandler.Signup(w, testutil.MakeRequest("POST", "/users/signup", creds, nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - signup %s failed: %d - %s", user, w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		userHandler.Login(w, testutil.MakeRequest("POST", "/users/login", creds, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Step 1 - login %s failed: %d - %s", user, w.Code, w.Body.String())
		}
		var login models.LoginResponse
		testutil.AssertJSON(t, w, &login)
		if login.UserID != user {
			t.Errorf("Step 1 - login returned user %q, want %q", login.UserID, user)
		}
		bearer[user] = map[string]string{"Authorization": "Bearer " + login.Token}
	}

	// Step 2: create the poll
	createReq := models.CreatePollRequest{Title: "Lunch", Options: []string{"Pizza", "Sushi"}}
	w := serve(pollHandler.CreatePoll, testutil.MakeRequest("POST", "/polls", createReq, bearer["alice"]))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - create poll failed: %d - %s", w.Code, w.Body.String())
	}
	var poll models.Poll
	testutil.AssertJSON(t, w, &poll)
	pizza := testutil.OptionID(t, poll, "Pizza")
	sushi := testutil.OptionID(t, poll, "Sushi")

	// Step 3: votes
	castVote := func(user, optionID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/polls/"+poll.ID+"/vote", models.VoteRequest{OptionID: optionID}, bearer[user])
		req.SetPathValue("id", poll.ID)
		return serve(pollHandler.Vote, req)
	}
	for user, option := range map[string]string{"u1": pizza, "u2": pizza, "u3": sushi} {
		if w := castVote(user, option); w.Code != http.StatusOK {
			t.Fatalf("Step 3 - vote by %s failed: %d - %s", user, w.Code, w.Body.String())
		}
	}

	// Step 4: u1 cannot change their mind
	w = castVote("u1", sushi)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Step 5: everything agrees
	req := testutil.MakeRequest("GET", "/polls/"+poll.ID, nil, bearer["u3"])
	req.SetPathValue("id", poll.ID)
	w = serve(pollHandler.GetPoll, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &poll)
	if c := counts(poll); c["Pizza"] != 2 || c["Sushi"] != 1 {
		t.Errorf("Step 5 - expected Pizza 2 / Sushi 1, got %v", c)
	}
	if len(poll.Ballots) != 3 {
		t.Errorf("Step 5 - expected 3 ballots, got %d", len(poll.Ballots))
	}

	req = testutil.MakeRequest("GET", "/polls/"+poll.ID+"/analytics", nil, bearer["alice"])
	req.SetPathValue("id", poll.ID)
	w = serve(pollHandler.Analytics, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var analytics models.Analytics
	testutil.AssertJSON(t, w, &analytics)
	if analytics.TotalVotes != 3 {
		t.Errorf("Step 5 - expected 3 total votes, got %d", analytics.TotalVotes)
	}

	w = serve(pollHandler.Dashboard, testutil.MakeRequest("GET", "/polls/dashboard", nil, bearer["alice"]))
	testutil.AssertStatus(t, w, http.StatusOK)
	var dash models.DashboardResponse
	testutil.AssertJSON(t, w, &dash)
	if len(dash.Polls) != 1 || dash.Polls[0].ID != poll.ID {
		t.Errorf("Step 5 - expected alice's dashboard to hold the poll, got %+v", dash.Polls)
	}
}

func TestSignupDuplicateUser(t *testing.T) {
	store := db.NewStore(testutil.SetupTestDB(t), db.TypeSQLite, db.DefaultMaxAttempts)
	handler := NewUserHandler(auth.NewAccounts(store, testutil.NewTestTokens(t), bcrypt.MinCost))
	creds := models.CredentialsRequest{UserID: "alice", Password: "pw"}

	w := httptest.NewRecorder()
	handler.Signup(w, testutil.MakeRequest("POST", "/users/signup", creds, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	handler.Signup(w, testutil.MakeRequest("POST", "/users/signup", creds, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Code != "UserExists" {
		t.Errorf("Expected UserExists, got %q", resp.Code)
	}
}

func TestLoginFailures(t *testing.T) {
	store := db.NewStore(testutil.SetupTestDB(t), db.TypeSQLite, db.DefaultMaxAttempts)
	handler := NewUserHandler(auth.NewAccounts(store, testutil.NewTestTokens(t), bcrypt.MinCost))

	w := httptest.NewRecorder()
	handler.Signup(w, testutil.MakeRequest("POST", "/users/signup", models.CredentialsRequest{UserID: "alice", Password: "pw"}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	tests := []struct {
		name string
		body interface{}
	}{
		{"wrong password", models.CredentialsRequest{UserID: "alice", Password: "nope"}},
		{"unknown user", models.CredentialsRequest{UserID: "mallory", Password: "pw"}},
		{"missing fields", models.CredentialsRequest{}},
		{"invalid JSON", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Login(w, testutil.MakeRequest("POST", "/users/login", tt.body, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}
