// Package violation provides PostgreSQL-backed storage for per-user
// violation history. Each row tallies one submission's violations by
// tier; the policy engine reads the rows back and applies its rolling
// window at evaluation time. Records are never deleted automatically.
package violation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonahtube/studio/internal/policy"
)

// Store manages violation records in PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore creates a violation store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// All returns a user's full violation history, oldest record first.
// A user with no recorded violations gets an empty history, not an error.
func (s *Store) All(ctx context.Context, userID string) (*policy.History, error) {
	const query = `
		SELECT recorded_at, severe, moderate, mild
		FROM violation_records
		WHERE user_id = $1
		ORDER BY recorded_at, id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("violation: load: %w", err)
	}
	defer rows.Close()

	h := &policy.History{UserID: userID}
	for rows.Next() {
		var rec policy.Record
		if err := rows.Scan(&rec.At, &rec.Severe, &rec.Moderate, &rec.Mild); err != nil {
			return nil, fmt.Errorf("violation: scan: %w", err)
		}
		h.Records = append(h.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("violation: load rows: %w", err)
	}
	return h, nil
}

// Append persists one new violation record for a user.
func (s *Store) Append(ctx context.Context, userID string, rec policy.Record) error {
	const query = `
		INSERT INTO violation_records (user_id, recorded_at, severe, moderate, mild)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query, userID, rec.At, rec.Severe, rec.Moderate, rec.Mild)
	if err != nil {
		return fmt.Errorf("violation: insert: %w", err)
	}
	return nil
}

// Recent returns the number of violation records for a user within the
// given time window. Used by the moderation stats endpoint.
func (s *Store) Recent(ctx context.Context, userID string, window time.Duration) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM violation_records
		WHERE user_id = $1
		  AND recorded_at >= NOW() - $2::interval`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, window.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("violation: count recent: %w", err)
	}
	return count, nil
}
