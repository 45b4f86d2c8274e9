package video

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StatsPrefix is the Redis key prefix for per-user counter hashes.
const StatsPrefix = "stats:"

// UserStats are the per-user publish counters. A user with no hash reads
// as all zeroes.
type UserStats struct {
	VideosUploaded int64 `redis:"videos_uploaded" json:"videos_uploaded"`
	TotalViews     int64 `redis:"total_views" json:"total_views"`
}

// StatsStore tracks per-user counters in Redis hashes.
type StatsStore struct {
	client *redis.Client
}

// NewStatsStore creates a stats store using the provided Redis client.
func NewStatsStore(client *redis.Client) *StatsStore {
	return &StatsStore{client: client}
}

// RecordUpload increments the user's upload counter.
func (s *StatsStore) RecordUpload(ctx context.Context, userID string) error {
	key := StatsPrefix + userID
	if err := s.client.HIncrBy(ctx, key, "videos_uploaded", 1).Err(); err != nil {
		return fmt.Errorf("video: stats upload incr: %w", err)
	}
	return nil
}

// RecordViews adds n to the user's view counter.
func (s *StatsStore) RecordViews(ctx context.Context, userID string, n int64) error {
	key := StatsPrefix + userID
	if err := s.client.HIncrBy(ctx, key, "total_views", n).Err(); err != nil {
		return fmt.Errorf("video: stats views incr: %w", err)
	}
	return nil
}

// Get returns the user's counters.
func (s *StatsStore) Get(ctx context.Context, userID string) (UserStats, error) {
	key := StatsPrefix + userID
	var stats UserStats
	if err := s.client.HGetAll(ctx, key).Scan(&stats); err != nil {
		return UserStats{}, fmt.Errorf("video: stats get: %w", err)
	}
	return stats, nil
}
