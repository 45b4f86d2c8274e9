// Package account tracks per-user enforcement status backed by Redis.
// Status records are simple key-value pairs:
//
//	Key:   account:<userID>
//	Value: <enforcement message>
//	TTL:   suspension length, or none for a permanent ban
//
// Suspensions expire on their own through the key TTL, so a suspended
// account becomes active again without any sweeper process.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusPrefix is the Redis key prefix for enforcement records.
const StatusPrefix = "account:"

// State is the enforcement state of an account.
type State string

const (
	StateActive    State = "active"
	StateSuspended State = "suspended"
	StateBanned    State = "banned"
)

// Status describes an account's current standing. Until is set only for
// suspensions and carries the time the suspension lifts.
type Status struct {
	State   State     `json:"state"`
	Message string    `json:"message,omitempty"`
	Until   time.Time `json:"until,omitempty"`
}

// Active reports whether the account may publish content.
func (s Status) Active() bool { return s.State == StateActive }

// Store manages enforcement records in Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates an account store using the provided Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Status returns the current standing of a user. A missing key means the
// account is active. A key with no TTL is a permanent ban; a key with a
// TTL is a suspension that lifts when the key expires. Redis errors are
// returned so callers can decide how to handle them.
func (s *Store) Status(ctx context.Context, userID string) (Status, error) {
	key := StatusPrefix + userID

	msg, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Status{State: StateActive}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("account: status get: %w", err)
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		// The record exists but the TTL read failed. Report the harsher
		// state rather than swallowing the enforcement.
		return Status{State: StateBanned, Message: msg}, nil
	}

	if ttl > 0 {
		return Status{
			State:   StateSuspended,
			Message: msg,
			Until:   time.Now().Add(ttl),
		}, nil
	}
	return Status{State: StateBanned, Message: msg}, nil
}

// Ban permanently bans a user. The record never expires; only Lift
// removes it.
func (s *Store) Ban(ctx context.Context, userID, message string) error {
	key := StatusPrefix + userID
	if err := s.client.Set(ctx, key, message, 0).Err(); err != nil {
		return fmt.Errorf("account: ban: %w", err)
	}
	return nil
}

// Suspend suspends a user for the given duration. The record expires on
// its own when the suspension is over. A suspension never shortens an
// existing permanent ban.
func (s *Store) Suspend(ctx context.Context, userID string, d time.Duration, message string) error {
	key := StatusPrefix + userID

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("account: suspend ttl: %w", err)
	}
	// TTL of -1 means a persistent key: an existing permanent ban.
	if ttl == -1 {
		return nil
	}

	if err := s.client.Set(ctx, key, message, d).Err(); err != nil {
		return fmt.Errorf("account: suspend: %w", err)
	}
	return nil
}

// Lift removes any ban or suspension from a user immediately.
func (s *Store) Lift(ctx context.Context, userID string) error {
	key := StatusPrefix + userID
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("account: lift: %w", err)
	}
	return nil
}
