// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/danielhkuo/quickly-poll/models"
)

type entry struct {
	mu   sync.RWMutex
	poll models.Poll
}

// Store keeps polls and users in memory. Each poll has its own lock; mu only
// guards the maps, never a poll's contents.
type Store struct {
	mu    sync.RWMutex
	polls map[string]*entry
	users map[string]models.User
}

func New() *Store {
	return &Store{
		polls: make(map[string]*entry),
		users: make(map[string]models.User),
	}
}

func (s *Store) Insert(ctx context.Context, poll models.Poll) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.polls[poll.ID]; exists {
		return fmt.Errorf("poll with ID %s already exists", poll.ID)
	}
	s.polls[poll.ID] = &entry{poll: poll.Clone()}
	return nil
}

func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.polls[id]
	return e, ok
}

func (s *Store) Get(ctx context.Context, id string) (models.Poll, error) {
	if err := ctx.Err(); err != nil {
		return models.Poll{}, err
	}

	e, ok := s.lookup(id)
	if !ok {
		return models.Poll{}, fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.poll.Clone(), nil
}

// Update holds the poll's write lock across mutate so concurrent votes on the
// same poll run one at a time. Other polls are unaffected.
func (s *Store) Update(ctx context.Context, id string, mutate func(*models.Poll) error) (models.Poll, error) {
	if err := ctx.Err(); err != nil {
		return models.Poll{}, err
	}

	e, ok := s.lookup(id)
	if !ok {
		return models.Poll{}, fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.poll.Clone()
	if err := mutate(&next); err != nil {
		return models.Poll{}, err
	}
	next.Revision++
	e.poll = next

	return next.Clone(), nil
}

func (s *Store) List(ctx context.Context, filter models.PollFilter) ([]models.Poll, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	entries := make([]*entry, 0, len(s.polls))
	for _, e := range s.polls {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	query := strings.ToLower(filter.TitleQuery)
	matched := make([]models.Poll, 0, len(entries))
	for _, e := range entries {
		e.mu.RLock()
		p := e.poll.Clone()
		e.mu.RUnlock()

		if filter.CreatedBy != "" && p.CreatedBy != filter.CreatedBy {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if filter.PageSize <= 0 {
		return matched, total, nil
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * filter.PageSize
	if start >= total {
		return []models.Poll{}, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.UserID]; exists {
		return models.ErrUserExists
	}
	s.users[user.UserID] = user
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return user, nil
}
