// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/polls"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type PollHandler struct {
	service *polls.Service
}

func NewPollHandler(service *polls.Service) *PollHandler {
	return &PollHandler{service: service}
}

// callerID returns the authenticated user or writes a 401.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return userID, true
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.service.CreatePoll(r.Context(), models.CreatePollInput{
		Title:             req.Title,
		Options:           req.Options,
		CreatedBy:         userID,
		AllowVoteChange:   req.AllowVoteChange,
		ShowInstantResult: req.ShowInstantResult,
	})
	if err != nil {
		middleware.ErrorFromErr(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// ListPolls handles GET /polls?page=&limit=
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page", defaultPage)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", defaultLimit)
	if !ok {
		return
	}

	result, err := h.service.ListPolls(r.Context(), models.PollFilter{Page: page, PageSize: limit})
	if err != nil {
		middleware.ErrorFromErr(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListPollsResponse{
		Polls:       result.Items,
		TotalPolls:  result.TotalCount,
		TotalPages:  result.TotalPages,
		CurrentPage: result.Page,
	})
}

// queryInt reads a positive integer query parameter, writing a 400 when it
// is present but malformed.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return n, true
}

// SearchPolls handles GET /polls/search?query=
func (h *PollHandler) SearchPolls(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.SearchPolls(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		middleware.ErrorFromErr(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// Dashboard handles GET /polls/dashboard
func (h *PollHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	mine, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		middleware.ErrorFromErr(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DashboardResponse{Polls: mine})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.service.GetPoll(r.Context(), pollID)
	if err != nil {
		middleware.ErrorFromErr(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// Vote handles POST /polls/{id}/vote
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "optionId is required")
		return
	}

	poll, err := h.service.CastOrChangeVote(r.Context(), pollID, userID, req.OptionID)
	if err != nil {
		middleware.ErrorFromErr(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// Analytics handles GET /polls/{id}/analytics
func (h *PollHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	analytics, err := h.service.Analytics(r.Context(), pollID)
	if err != nil {
		middleware.ErrorFromErr(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, analytics)
}
