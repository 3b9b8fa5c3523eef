// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-poll/models"
)

// DefaultMaxAttempts bounds the retry loop in Update.
const DefaultMaxAttempts = 5

const retryBaseDelay = 2 * time.Millisecond

var errRevisionMismatch = errors.New("poll revision changed")

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists polls and users in PostgreSQL or SQLite.
//
// Vote mutations read, mutate and write a poll inside one locked
// transaction, and every write bumps poll.revision.
type Store struct {
	db          *sql.DB
	readOpts    *sql.TxOptions
	lockQuery   string
	maxAttempts int
}

func NewStore(db *sql.DB, dbType string, maxAttempts int) *Store {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	s := &Store{db: db, maxAttempts: maxAttempts}
	if dbType == TypePostgres {
		// One snapshot for the poll, option and ballot queries.
		s.readOpts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
		s.lockQuery = `SELECT revision FROM poll WHERE id = $1 FOR UPDATE`
	}
	return s
}

func toMicros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

// Insert stores a new poll and its options.
func (s *Store) Insert(ctx context.Context, poll models.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, title, created_by, allow_vote_change, show_instant_result, revision, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, poll.ID, poll.Title, poll.CreatedBy, poll.AllowVoteChange, poll.ShowInstantResult, poll.Revision, toMicros(poll.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	for i, opt := range poll.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO option (id, poll_id, position, text, vote_count)
			VALUES ($1, $2, $3, $4, $5)
		`, opt.ID, poll.ID, i, opt.Text, opt.VoteCount)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get reads a poll with its options and ballots from a single transaction.
func (s *Store) Get(ctx context.Context, id string) (models.Poll, error) {
	tx, err := s.db.BeginTx(ctx, s.readOpts)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	poll, err := loadPoll(ctx, tx, id)
	if err != nil {
		return models.Poll{}, err
	}
	return poll, tx.Commit()
}

// Update applies mutate to the latest poll and writes the result in the same
// transaction. The poll row is locked before it is read: SQLite takes the
// write lock at BEGIN and PostgreSQL uses SELECT ... FOR UPDATE, so writers
// on one poll queue instead of racing. The revision check stays as a guard;
// when it trips, Update backs off and retries up to maxAttempts times, then
// fails with models.ErrStorageConflict.
func (s *Store) Update(ctx context.Context, id string, mutate func(*models.Poll) error) (models.Poll, error) {
	return s.retry(ctx, id, func() (models.Poll, error) {
		return s.update(ctx, id, mutate)
	})
}

func (s *Store) retry(ctx context.Context, id string, attempt func() (models.Poll, error)) (models.Poll, error) {
	for n := 1; n <= s.maxAttempts; n++ {
		poll, err := attempt()
		if !errors.Is(err, errRevisionMismatch) {
			return poll, err
		}
		slog.Debug("poll revision conflict, retrying", "poll_id", id, "attempt", n)
		if n < s.maxAttempts {
			if err := backoff(ctx, n); err != nil {
				return models.Poll{}, err
			}
		}
	}

	slog.Warn("poll update gave up after conflicts", "poll_id", id, "attempts", s.maxAttempts)
	return models.Poll{}, fmt.Errorf("poll %s: %w", id, models.ErrStorageConflict)
}

// backoff sleeps for a random duration that doubles with each attempt.
func backoff(ctx context.Context, attempt int) error {
	window := retryBaseDelay << min(attempt, 6)
	timer := time.NewTimer(rand.N(window) + 1)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Store) update(ctx context.Context, id string, mutate func(*models.Poll) error) (models.Poll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if s.lockQuery != "" {
		var revision int64
		err := tx.QueryRowContext(ctx, s.lockQuery, id).Scan(&revision)
		if err == sql.ErrNoRows {
			return models.Poll{}, fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
		}
		if err != nil {
			return models.Poll{}, fmt.Errorf("failed to lock poll: %w", err)
		}
	}

	current, err := loadPoll(ctx, tx, id)
	if err != nil {
		return models.Poll{}, err
	}

	next := current.Clone()
	if err := mutate(&next); err != nil {
		return models.Poll{}, err
	}

	if err := writePoll(ctx, tx, current, next); err != nil {
		return models.Poll{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	next.Revision = current.Revision + 1
	return next, nil
}

// writePoll bumps the revision read as before.Revision and stores the ballot
// and count changes from before to after. It returns errRevisionMismatch when
// another writer committed first.
func writePoll(ctx context.Context, tx *sql.Tx, before, after models.Poll) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE poll SET revision = revision + 1
		WHERE id = $1 AND revision = $2
	`, after.ID, before.Revision)
	if err != nil {
		return fmt.Errorf("failed to bump poll revision: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return errRevisionMismatch
	}

	prev := make(map[string]models.Ballot, len(before.Ballots))
	for _, b := range before.Ballots {
		prev[b.VoterID] = b
	}

	for _, b := range after.Ballots {
		old, existed := prev[b.VoterID]
		switch {
		case !existed:
			_, err = tx.ExecContext(ctx, `
				INSERT INTO ballot (poll_id, voter_id, option_id, cast_at, updated_at)
				VALUES ($1, $2, $3, $4, $5)
			`, after.ID, b.VoterID, b.OptionID, toMicros(b.CastAt), toMicros(b.UpdatedAt))
			if isUniqueViolation(err) {
				return errRevisionMismatch
			}
		case old.OptionID != b.OptionID || !old.UpdatedAt.Equal(b.UpdatedAt):
			_, err = tx.ExecContext(ctx, `
				UPDATE ballot SET option_id = $1, updated_at = $2
				WHERE poll_id = $3 AND voter_id = $4
			`, b.OptionID, toMicros(b.UpdatedAt), after.ID, b.VoterID)
		}
		if err != nil {
			return fmt.Errorf("failed to write ballot: %w", err)
		}
	}

	for _, opt := range after.Options {
		_, err = tx.ExecContext(ctx, `
			UPDATE option SET vote_count = $1
			WHERE id = $2 AND poll_id = $3
		`, opt.VoteCount, opt.ID, after.ID)
		if err != nil {
			return fmt.Errorf("failed to write vote count: %w", err)
		}
	}

	return nil
}

// List returns the polls matching filter, newest first, and the total number
// of matches ignoring pagination.
func (s *Store) List(ctx context.Context, filter models.PollFilter) ([]models.Poll, int, error) {
	tx, err := s.db.BeginTx(ctx, s.readOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var where []string
	var args []any
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		where = append(where, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if filter.TitleQuery != "" {
		args = append(args, likePattern(filter.TitleQuery))
		where = append(where, fmt.Sprintf(`LOWER(title) LIKE $%d ESCAPE '\'`, len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM poll"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count polls: %w", err)
	}

	query := "SELECT id FROM poll" + clause + " ORDER BY created_at DESC, id DESC"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	ids, err := scanIDs(tx.QueryContext(ctx, query, args...))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list polls: %w", err)
	}

	polls := make([]models.Poll, 0, len(ids))
	for _, id := range ids {
		poll, err := loadPoll(ctx, tx, id)
		if err != nil {
			return nil, 0, err
		}
		polls = append(polls, poll)
	}

	return polls, total, tx.Commit()
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

func scanIDs(rows *sql.Rows, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// loadPoll reads one poll. Each query's rows are closed before the next
// query runs, since lib/pq allows one open result set per connection.
func loadPoll(ctx context.Context, q queryer, id string) (models.Poll, error) {
	var poll models.Poll
	var createdAt int64
	err := q.QueryRowContext(ctx, `
		SELECT id, title, created_by, allow_vote_change, show_instant_result, revision, created_at
		FROM poll
		WHERE id = $1
	`, id).Scan(
		&poll.ID, &poll.Title, &poll.CreatedBy, &poll.AllowVoteChange,
		&poll.ShowInstantResult, &poll.Revision, &createdAt,
	)
	if err == sql.ErrNoRows {
		return models.Poll{}, fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}
	poll.CreatedAt = fromMicros(createdAt)

	poll.Options, err = loadOptions(ctx, q, id)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query options: %w", err)
	}

	poll.Ballots, err = loadBallots(ctx, q, id)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query ballots: %w", err)
	}

	return poll, nil
}

func loadOptions(ctx context.Context, q queryer, pollID string) ([]models.Option, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, text, vote_count
		FROM option
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.Text, &opt.VoteCount); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

func loadBallots(ctx context.Context, q queryer, pollID string) ([]models.Ballot, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT voter_id, option_id, cast_at, updated_at
		FROM ballot
		WHERE poll_id = $1
		ORDER BY cast_at, voter_id
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ballots := []models.Ballot{}
	for rows.Next() {
		var b models.Ballot
		var castAt, updatedAt int64
		if err := rows.Scan(&b.VoterID, &b.OptionID, &castAt, &updatedAt); err != nil {
			return nil, err
		}
		b.CastAt = fromMicros(castAt)
		b.UpdatedAt = fromMicros(updatedAt)
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}
