// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-poll/memstore"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/polls"
	"github.com/danielhkuo/quickly-poll/testutil"
)

// asUser marks the request as authenticated by userID, as RequireAuth would.
func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func newMemoryHandler() (*PollHandler, *polls.Service) {
	service := polls.NewService(memstore.New())
	return NewPollHandler(service), service
}

func TestCreatePoll(t *testing.T) {
	handler, _ := newMemoryHandler()

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid poll",
			body:           models.CreatePollRequest{Title: "Lunch", Options: []string{"Pizza", "Sushi"}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "single option",
			body:           models.CreatePollRequest{Title: "Yes?", Options: []string{"Yes"}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			body:           models.CreatePollRequest{Options: []string{"A"}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "InvalidInput",
		},
		{
			name:           "blank title",
			body:           models.CreatePollRequest{Title: "   ", Options: []string{"A"}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "InvalidInput",
		},
		{
			name:           "no options",
			body:           models.CreatePollRequest{Title: "Empty"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "InvalidInput",
		},
		{
			name:           "empty option text",
			body:           models.CreatePollRequest{Title: "Lunch", Options: []string{"Pizza", ""}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "InvalidInput",
		},
		{
			name:           "invalid JSON",
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest("POST", "/polls", tt.body, nil), "alice")
			w := httptest.NewRecorder()

			handler.CreatePoll(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusCreated {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Code != tt.expectedCode {
					t.Errorf("Expected code %q, got %q", tt.expectedCode, resp.Code)
				}
				return
			}

			var poll models.Poll
			testutil.AssertJSON(t, w, &poll)
			if poll.ID == "" {
				t.Error("Expected poll ID")
			}
			if poll.CreatedBy != "alice" {
				t.Errorf("Expected createdBy alice, got %q", poll.CreatedBy)
			}
			for _, opt := range poll.Options {
				if opt.ID == "" || opt.VoteCount != 0 {
					t.Errorf("Expected fresh option with ID and zero votes, got %+v", opt)
				}
			}
			if len(poll.Ballots) != 0 {
				t.Errorf("Expected no ballots, got %d", len(poll.Ballots))
			}
		})
	}
}

func TestCreatePollRequiresUser(t *testing.T) {
	handler, _ := newMemoryHandler()

	body := models.CreatePollRequest{Title: "Lunch", Options: []string{"Pizza"}}
	w := httptest.NewRecorder()
	handler.CreatePoll(w, testutil.MakeRequest("POST", "/polls", body, nil))

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestCreatePollKeepsFlags(t *testing.T) {
	handler, service := newMemoryHandler()

	body := models.CreatePollRequest{
		Title:             "Lunch",
		Options:           []string{"Pizza", "Sushi"},
		AllowVoteChange:   true,
		ShowInstantResult: true,
	}
	w := httptest.NewRecorder()
	handler.CreatePoll(w, asUser(testutil.MakeRequest("POST", "/polls", body, nil), "alice"))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.Poll
	testutil.AssertJSON(t, w, &created)

	stored, err := service.GetPoll(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("GetPoll() error = %v", err)
	}
	if !stored.AllowVoteChange || !stored.ShowInstantResult {
		t.Errorf("Expected both flags stored, got %+v", stored)
	}
	if stored.Options[0].Text != "Pizza" || stored.Options[1].Text != "Sushi" {
		t.Errorf("Expected option order preserved, got %+v", stored.Options)
	}
}

func TestGetPoll(t *testing.T) {
	handler, service := newMemoryHandler()
	poll := testutil.CreateTestPoll(t, service, "alice", "Lunch", false, "Pizza", "Sushi")

	tests := []struct {
		name           string
		pollID         string
		expectedStatus int
	}{
		{"existing poll", poll.ID, http.StatusOK},
		{"unknown poll", "does-not-exist", http.StatusNotFound},
		{"missing id", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest("GET", "/polls/"+tt.pollID, nil, nil), "bob")
			req.SetPathValue("id", tt.pollID)
			w := httptest.NewRecorder()

			handler.GetPoll(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var got models.Poll
				testutil.AssertJSON(t, w, &got)
				if got.Title != "Lunch" || len(got.Options) != 2 {
					t.Errorf("Unexpected poll: %+v", got)
				}
			}
		})
	}
}

func TestListPollsPagination(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	service := polls.NewService(memstore.New(), polls.WithClock(func() time.Time { return clock }))
	handler := NewPollHandler(service)

	for i := 0; i < 15; i++ {
		clock = base.Add(time.Duration(i) * time.Minute)
		testutil.CreateTestPoll(t, service, "alice", fmt.Sprintf("Poll %02d", i), false, "A", "B")
	}

	tests := []struct {
		name          string
		query         string
		expectedItems int
		expectedPage  int
		firstTitle    string
	}{
		{"defaults", "", 10, 1, "Poll 14"},
		{"second page", "?page=2&limit=10", 5, 2, "Poll 04"},
		{"past the end", "?page=3&limit=10", 0, 3, ""},
		{"small pages", "?page=1&limit=4", 4, 1, "Poll 14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest("GET", "/polls"+tt.query, nil, nil), "bob")
			w := httptest.NewRecorder()

			handler.ListPolls(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)
			var resp models.ListPollsResponse
			testutil.AssertJSON(t, w, &resp)

			if len(resp.Polls) != tt.expectedItems {
				t.Errorf("Expected %d polls, got %d", tt.expectedItems, len(resp.Polls))
			}
			if resp.TotalPolls != 15 {
				t.Errorf("Expected totalPolls 15, got %d", resp.TotalPolls)
			}
			if resp.CurrentPage != tt.expectedPage {
				t.Errorf("Expected currentPage %d, got %d", tt.expectedPage, resp.CurrentPage)
			}
			if tt.firstTitle != "" && resp.Polls[0].Title != tt.firstTitle {
				t.Errorf("Expected newest first %q, got %q", tt.firstTitle, resp.Polls[0].Title)
			}
			if resp.Polls == nil {
				t.Error("Expected polls to encode as an array, got null")
			}
		})
	}

	t.Run("total pages", func(t *testing.T) {
		req := asUser(testutil.MakeRequest("GET", "/polls?limit=10", nil, nil), "bob")
		w := httptest.NewRecorder()
		handler.ListPolls(w, req)

		var resp models.ListPollsResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.TotalPages != 2 {
			t.Errorf("Expected 2 total pages, got %d", resp.TotalPages)
		}
	})
}

func TestListPollsRejectsBadPaging(t *testing.T) {
	handler, _ := newMemoryHandler()

	for _, query := range []string{"?page=0", "?page=-1", "?limit=0", "?page=abc", "?limit=1.5"} {
		t.Run(query, func(t *testing.T) {
			req := asUser(testutil.MakeRequest("GET", "/polls"+query, nil, nil), "bob")
			w := httptest.NewRecorder()

			handler.ListPolls(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestSearchPolls(t *testing.T) {
	handler, service := newMemoryHandler()
	testutil.CreateTestPoll(t, service, "alice", "Lunch Friday", false, "Pizza")
	testutil.CreateTestPoll(t, service, "bob", "team LUNCH", false, "Tacos")
	testutil.CreateTestPoll(t, service, "bob", "Offsite venue", false, "Beach")

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedHits   int
	}{
		{"case insensitive", "lunch", http.StatusOK, 2},
		{"substring", "site", http.StatusOK, 1},
		{"no match", "dinner", http.StatusOK, 0},
		{"missing query", "", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/polls/search"
			if tt.query != "" {
				path += "?query=" + tt.query
			}
			req := asUser(testutil.MakeRequest("GET", path, nil, nil), "carol")
			w := httptest.NewRecorder()

			handler.SearchPolls(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var hits []models.Poll
			testutil.AssertJSON(t, w, &hits)
			if len(hits) != tt.expectedHits {
				t.Errorf("Expected %d hits, got %d", tt.expectedHits, len(hits))
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	handler, service := newMemoryHandler()
	testutil.CreateTestPoll(t, service, "alice", "Lunch", false, "Pizza")
	testutil.CreateTestPoll(t, service, "alice", "Dinner", false, "Steak")
	testutil.CreateTestPoll(t, service, "bob", "Offsite", false, "Beach")

	tests := []struct {
		user     string
		expected int
	}{
		{"alice", 2},
		{"bob", 1},
		{"carol", 0},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			req := asUser(testutil.MakeRequest("GET", "/polls/dashboard", nil, nil), tt.user)
			w := httptest.NewRecorder()

			handler.Dashboard(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)
			var resp models.DashboardResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp.Polls) != tt.expected {
				t.Errorf("Expected %d polls, got %d", tt.expected, len(resp.Polls))
			}
			if resp.Polls == nil {
				t.Error("Expected an empty array, got null")
			}
			for _, p := range resp.Polls {
				if p.CreatedBy != tt.user {
					t.Errorf("Dashboard leaked poll by %q", p.CreatedBy)
				}
			}
		})
	}
}

func TestAnalytics(t *testing.T) {
	handler, service := newMemoryHandler()
	poll := testutil.CreateTestPoll(t, service, "alice", "Lunch", false, "Pizza", "Sushi")
	pizza := testutil.OptionID(t, poll, "Pizza")
	sushi := testutil.OptionID(t, poll, "Sushi")

	for voter, option := range map[string]string{"u1": pizza, "u2": pizza, "u3": sushi} {
		if _, err := service.CastOrChangeVote(t.Context(), poll.ID, voter, option); err != nil {
			t.Fatalf("CastOrChangeVote() error = %v", err)
		}
	}

	t.Run("counts", func(t *testing.T) {
		req := asUser(testutil.MakeRequest("GET", "/polls/"+poll.ID+"/analytics", nil, nil), "alice")
		req.SetPathValue("id", poll.ID)
		w := httptest.NewRecorder()

		handler.Analytics(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var got models.Analytics
		testutil.AssertJSON(t, w, &got)

		if got.Title != "Lunch" || got.TotalVotes != 3 {
			t.Errorf("Expected Lunch with 3 votes, got %+v", got)
		}
		if len(got.Options) != 2 || got.Options[0].VoteCount != 2 || got.Options[1].VoteCount != 1 {
			t.Errorf("Expected Pizza 2 / Sushi 1, got %+v", got.Options)
		}
	})

	t.Run("unknown poll", func(t *testing.T) {
		req := asUser(testutil.MakeRequest("GET", "/polls/nope/analytics", nil, nil), "alice")
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()

		handler.Analytics(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
