// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/quickly-poll/models"
)

// CreateUser inserts a user. An existing user_id yields models.ErrUserExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, password_hash, created_at)
		VALUES ($1, $2, $3)
	`, user.UserID, user.PasswordHash, toMicros(user.CreatedAt))
	if isUniqueViolation(err) {
		return models.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, password_hash, created_at
		FROM users
		WHERE user_id = $1
	`, userID).Scan(&user.UserID, &user.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return models.User{}, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.CreatedAt = fromMicros(createdAt)
	return user, nil
}
