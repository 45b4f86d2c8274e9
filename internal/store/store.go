// Package store provides a small key-value abstraction over JSON documents.
// It is the persistence seam for everything that is not correctness-critical
// enough to warrant its own SQL table: the moderation audit log, cached user
// stats, and similar look-aside state. Absence of a key is not an error;
// callers treat it as an empty default.
package store

import "context"

// Store is a JSON document store keyed by string.
type Store interface {
	// Get unmarshals the value stored under key into v. The boolean reports
	// whether the key existed; a missing key is not an error.
	Get(ctx context.Context, key string, v any) (bool, error)

	// Set marshals v as JSON and stores it under key, replacing any
	// previous value.
	Set(ctx context.Context, key string, v any) error
}
