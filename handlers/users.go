// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
)

type UserHandler struct {
	accounts *auth.Accounts
}

func NewUserHandler(accounts *auth.Accounts) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Signup handles POST /users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.accounts.Signup(r.Context(), req.UserID, req.Password); err != nil {
		middleware.ErrorFromErr(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SignupResponse{
		Message: "User registered successfully",
	})
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	token, err := h.accounts.Login(r.Context(), req.UserID, req.Password)
	if err != nil {
		middleware.ErrorFromErr(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Message: "Login successful",
		Token:   token,
		UserID:  strings.TrimSpace(req.UserID),
	})
}
