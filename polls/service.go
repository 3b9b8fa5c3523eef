// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/tally"
)

// Repository persists polls. Implementations must make Update an atomic
// read-modify-write per poll: mutate sees the latest committed poll, a
// mutate error persists nothing, and readers never observe ballots without
// the tallies computed from them.
type Repository interface {
	Insert(ctx context.Context, poll models.Poll) error
	Get(ctx context.Context, id string) (models.Poll, error)
	Update(ctx context.Context, id string, mutate func(*models.Poll) error) (models.Poll, error)
	List(ctx context.Context, filter models.PollFilter) ([]models.Poll, int, error)
}

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the time source used for creation and ballot times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePoll validates input and stores a poll with zero ballots.
func (s *Service) CreatePoll(ctx context.Context, in models.CreatePollInput) (models.Poll, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Poll{}, fmt.Errorf("title is required: %w", models.ErrInvalidInput)
	}
	createdBy := strings.TrimSpace(in.CreatedBy)
	if createdBy == "" {
		return models.Poll{}, fmt.Errorf("creator is required: %w", models.ErrInvalidInput)
	}
	if len(in.Options) == 0 {
		return models.Poll{}, fmt.Errorf("at least one option is required: %w", models.ErrInvalidInput)
	}

	options := make([]models.Option, 0, len(in.Options))
	for i, text := range in.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			return models.Poll{}, fmt.Errorf("option %d is empty: %w", i+1, models.ErrInvalidInput)
		}
		options = append(options, models.Option{ID: s.newID(), Text: text})
	}

	poll := models.Poll{
		ID:                s.newID(),
		Title:             title,
		Options:           options,
		CreatedBy:         createdBy,
		AllowVoteChange:   in.AllowVoteChange,
		ShowInstantResult: in.ShowInstantResult,
		Ballots:           []models.Ballot{},
		CreatedAt:         s.timestamp(),
	}

	if err := s.repo.Insert(ctx, poll); err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	slog.Info("poll created", "poll_id", poll.ID, "creator", createdBy, "options", len(options))
	return poll, nil
}

// CastOrChangeVote records voterID's choice of optionID. A voter without a
// ballot gets a new one; an existing ballot is reassigned only when the poll
// allows vote changes. Tallies are recomputed from the full ballot set in the
// same atomic update.
func (s *Service) CastOrChangeVote(ctx context.Context, pollID, voterID, optionID string) (models.Poll, error) {
	pollID, voterID, optionID = strings.TrimSpace(pollID), strings.TrimSpace(voterID), strings.TrimSpace(optionID)
	if voterID == "" {
		return models.Poll{}, fmt.Errorf("voter is required: %w", models.ErrInvalidInput)
	}

	var changed bool
	poll, err := s.repo.Update(ctx, pollID, func(p *models.Poll) error {
		if !p.HasOption(optionID) {
			return fmt.Errorf("option %q is not part of poll %s: %w", optionID, p.ID, models.ErrInvalidOption)
		}

		now := s.timestamp()
		if i, ok := p.BallotIndex(voterID); ok {
			if !p.AllowVoteChange {
				return models.ErrVoteChangeNotAllowed
			}
			p.Ballots[i].OptionID = optionID
			p.Ballots[i].UpdatedAt = now
			changed = true
		} else {
			p.Ballots = append(p.Ballots, models.Ballot{
				VoterID:   voterID,
				OptionID:  optionID,
				CastAt:    now,
				UpdatedAt: now,
			})
			changed = false
		}

		tally.Apply(p)
		return nil
	})
	if err != nil {
		return models.Poll{}, err
	}

	slog.Info("vote recorded", "poll_id", pollID, "option_id", optionID, "is_update", changed, "total_votes", tally.Total(poll.Options))
	return poll, nil
}

// GetPoll returns the poll with tallies derived from its current ballots.
func (s *Service) GetPoll(ctx context.Context, pollID string) (models.Poll, error) {
	poll, err := s.repo.Get(ctx, strings.TrimSpace(pollID))
	if err != nil {
		return models.Poll{}, err
	}
	tally.Apply(&poll)
	return poll, nil
}

// ListPolls returns one page of polls, newest first.
func (s *Service) ListPolls(ctx context.Context, filter models.PollFilter) (models.PollPage, error) {
	if filter.Page < 1 {
		return models.PollPage{}, fmt.Errorf("page must be a positive integer: %w", models.ErrInvalidInput)
	}
	if filter.PageSize < 1 {
		return models.PollPage{}, fmt.Errorf("page size must be a positive integer: %w", models.ErrInvalidInput)
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return models.PollPage{}, fmt.Errorf("failed to list polls: %w", err)
	}
	for i := range items {
		tally.Apply(&items[i])
	}

	return models.PollPage{
		Items:      items,
		TotalCount: total,
		TotalPages: (total + filter.PageSize - 1) / filter.PageSize,
		Page:       filter.Page,
	}, nil
}

// SearchPolls matches query case-insensitively against poll titles.
func (s *Service) SearchPolls(ctx context.Context, query string) ([]models.Poll, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required: %w", models.ErrInvalidInput)
	}
	return s.all(ctx, models.PollFilter{TitleQuery: query})
}

// Dashboard returns every poll created by createdBy. No polls is an empty
// result, not an error.
func (s *Service) Dashboard(ctx context.Context, createdBy string) ([]models.Poll, error) {
	createdBy = strings.TrimSpace(createdBy)
	if createdBy == "" {
		return nil, fmt.Errorf("creator is required: %w", models.ErrInvalidInput)
	}
	return s.all(ctx, models.PollFilter{CreatedBy: createdBy})
}

// Analytics reports the title, ballot count and per-option tallies.
func (s *Service) Analytics(ctx context.Context, pollID string) (models.Analytics, error) {
	poll, err := s.repo.Get(ctx, strings.TrimSpace(pollID))
	if err != nil {
		return models.Analytics{}, err
	}
	return tally.Analytics(poll), nil
}

// timestamp is truncated to the microsecond precision storage keeps.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Service) all(ctx context.Context, filter models.PollFilter) ([]models.Poll, error) {
	filter.Page, filter.PageSize = 1, 0
	items, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	for i := range items {
		tally.Apply(&items[i])
	}
	if items == nil {
		items = []models.Poll{}
	}
	return items, nil
}
