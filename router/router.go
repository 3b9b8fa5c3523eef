// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/handlers"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/polls"
)

func NewRouter(service *polls.Service, accounts *auth.Accounts, tokens middleware.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(service)
	userHandler := handlers.NewUserHandler(accounts)

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(tokens, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts (public)
	mux.HandleFunc("POST /users/signup", middleware.WithLogging(userHandler.Signup))
	mux.HandleFunc("POST /users/login", middleware.WithLogging(userHandler.Login))

	// Polls (bearer token required)
	mux.HandleFunc("POST /polls", protected(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", protected(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/search", protected(pollHandler.SearchPolls))
	mux.HandleFunc("GET /polls/dashboard", protected(pollHandler.Dashboard))
	mux.HandleFunc("GET /polls/{id}", protected(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls/{id}/vote", protected(pollHandler.Vote))
	mux.HandleFunc("GET /polls/{id}/analytics", protected(pollHandler.Analytics))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-poll API v1"))
	})

	return mux
}
