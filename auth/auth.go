// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/quickly-poll/models"
)

const tokenIssuer = "quickly-poll"

var ErrEmptySecret = errors.New("token secret is required")

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, userID string) (models.User, error)
}

// Claims carries the authenticated user ID inside a token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256-signed bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token signer. A zero ttl issues tokens without expiry.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token identifying userID.
func (t *Tokens) Issue(userID string) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry and returns the user ID.
func (t *Tokens) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", models.ErrInvalidToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: missing user id", models.ErrInvalidToken)
	}
	return claims.UserID, nil
}

// Accounts registers users and exchanges credentials for tokens.
type Accounts struct {
	users  UserStore
	tokens *Tokens
	cost   int
	now    func() time.Time
}

// NewAccounts creates an account service. cost <= 0 uses bcrypt.DefaultCost.
func NewAccounts(users UserStore, tokens *Tokens, cost int) *Accounts {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Accounts{users: users, tokens: tokens, cost: cost, now: time.Now}
}

// Signup stores a new user with a bcrypt hash of password.
func (a *Accounts) Signup(ctx context.Context, userID, password string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return fmt.Errorf("userId and password are required: %w", models.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return fmt.Errorf("password is too long: %w", models.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.users.CreateUser(ctx, models.User{
		UserID:       userID,
		PasswordHash: string(hash),
		CreatedAt:    a.now().UTC(),
	})
	if err != nil {
		return err
	}

	slog.Info("user registered", "user_id", userID)
	return nil
}

// Login verifies credentials and returns a signed token.
func (a *Accounts) Login(ctx context.Context, userID, password string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return "", fmt.Errorf("userId and password are required: %w", models.ErrInvalidInput)
	}

	user, err := a.users.GetUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	return a.tokens.Issue(user.UserID)
}
