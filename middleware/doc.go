// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (status,
duration_ms).

# Authentication

RequireAuth checks the Authorization: Bearer header and puts the caller's
user ID in the request context:

	mux.HandleFunc("POST /polls", middleware.RequireAuth(tokens, h.CreatePoll))

	userID, ok := middleware.UserID(r.Context())

Missing or rejected tokens get a 401.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

ErrorFromErr maps the error kinds in models to a status code and fills in
the code field of the error body:

	poll, err := service.GetPoll(ctx, id)
	if err != nil {
		middleware.ErrorFromErr(w, err)
		return
	}

Parse JSON request bodies:

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
