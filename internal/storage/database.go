package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"

	"github.com/sevigo/code-inspector/internal/core"
	"github.com/sevigo/code-inspector/internal/db"
)

// ErrDuplicateOutcome is returned by SaveOutcome when an outcome for the same
// webhook delivery is already stored.
var ErrDuplicateOutcome = errors.New("review outcome already recorded for this delivery")

const defaultListLimit = 20

// Store defines the interface for all database operations.
//
//go:generate mockgen -destination=../../mocks/mock_store.go -package=mocks . Store
type Store interface {
	SaveOutcome(ctx context.Context, outcome *core.ReviewOutcome) error
	ListOutcomes(ctx context.Context, repository string, limit int) ([]*core.ReviewOutcome, error)
	Close() error
}

type sqlStore struct {
	db *sqlx.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewStore creates a new Store
func NewStore(database *db.DB) Store {
	return &sqlStore{
		db:      database.DB,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

type outcomeRow struct {
	ID          string         `db:"id"`
	DeliveryID  sql.NullString `db:"delivery_id"`
	PRNumber    int            `db:"pr_number"`
	Repository  string         `db:"repository"`
	Action      string         `db:"action"`
	Status      string         `db:"status"`
	IssuesFound int            `db:"issues_found"`
	ReviewURL   string         `db:"review_url"`
	Comments    string         `db:"comments"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (s *sqlStore) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// SaveOutcome inserts outcome, assigning its ID and creation time when unset.
// A repeated delivery ID is not stored twice.
func (s *sqlStore) SaveOutcome(ctx context.Context, outcome *core.ReviewOutcome) error {
	if outcome.IssuesFound < 0 {
		return fmt.Errorf("issues_found must be non-negative, got %d", outcome.IssuesFound)
	}
	if outcome.CreatedAt.IsZero() {
		outcome.CreatedAt = time.Now()
	}
	outcome.CreatedAt = outcome.CreatedAt.UTC()
	if outcome.ID == "" {
		outcome.ID = s.newID(outcome.CreatedAt)
	}

	comments := outcome.Comments
	if comments == nil {
		comments = []string{}
	}
	encoded, err := json.Marshal(comments)
	if err != nil {
		return fmt.Errorf("failed to encode comments: %w", err)
	}

	query := s.db.Rebind(`
		INSERT INTO review_outcomes (id, delivery_id, pr_number, repository, action, status, issues_found, review_url, comments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (delivery_id) DO NOTHING`)

	res, err := s.db.ExecContext(ctx, query,
		outcome.ID,
		sql.NullString{String: outcome.DeliveryID, Valid: outcome.DeliveryID != ""},
		outcome.PRNumber,
		outcome.Repository,
		outcome.Action,
		outcome.Status,
		outcome.IssuesFound,
		outcome.ReviewURL,
		string(encoded),
		outcome.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save review outcome: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDuplicateOutcome
	}
	return nil
}

// ListOutcomes returns the most recent outcomes, newest first, optionally
// restricted to one repository.
func (s *sqlStore) ListOutcomes(ctx context.Context, repository string, limit int) ([]*core.ReviewOutcome, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, delivery_id, pr_number, repository, action, status, issues_found, review_url, comments, created_at
		FROM review_outcomes`
	args := []any{}
	if repository != "" {
		query += ` WHERE repository = ?`
		args = append(args, repository)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	var rows []outcomeRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list review outcomes: %w", err)
	}

	outcomes := make([]*core.ReviewOutcome, 0, len(rows))
	for _, r := range rows {
		o := &core.ReviewOutcome{
			ID:          r.ID,
			DeliveryID:  r.DeliveryID.String,
			PRNumber:    r.PRNumber,
			Repository:  r.Repository,
			Action:      r.Action,
			Status:      r.Status,
			IssuesFound: r.IssuesFound,
			ReviewURL:   r.ReviewURL,
			CreatedAt:   r.CreatedAt,
		}
		if err := json.Unmarshal([]byte(r.Comments), &o.Comments); err != nil {
			return nil, fmt.Errorf("failed to decode comments of outcome %s: %w", r.ID, err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// Close releases the connection pool. Closing twice is harmless.
func (s *sqlStore) Close() error {
	return s.db.Close()
}
