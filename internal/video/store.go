// Package video persists published video records and serves the archive
// side of the publish pipeline.
package video

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Record is one published video as stored in PostgreSQL.
type Record struct {
	ID          int64     `json:"id"`
	VideoID     string    `json:"video_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Visibility  string    `json:"visibility"`
	Channel     string    `json:"channel"`
	IsRecording bool      `json:"is_recording"`
	Duration    float64   `json:"duration,omitempty"` // seconds, recordings only
	CreatedAt   time.Time `json:"created_at"`
}

// Store manages published video records in PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore creates a video store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a published video record.
func (s *Store) Create(ctx context.Context, rec *Record) error {
	const query = `
		INSERT INTO videos (video_id, user_id, title, description, category, visibility, channel, is_recording, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		rec.VideoID,
		rec.UserID,
		rec.Title,
		rec.Description,
		rec.Category,
		rec.Visibility,
		rec.Channel,
		rec.IsRecording,
		rec.Duration,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("video: insert: %w", err)
	}
	return nil
}

// ListRecent returns up to limit most recently published videos,
// newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	const query = `
		SELECT id, video_id, user_id, title, description, category, visibility, channel, is_recording, duration, created_at
		FROM videos
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("video: list recent: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.VideoID,
			&rec.UserID,
			&rec.Title,
			&rec.Description,
			&rec.Category,
			&rec.Visibility,
			&rec.Channel,
			&rec.IsRecording,
			&rec.Duration,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("video: scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("video: list rows: %w", err)
	}
	return out, nil
}
