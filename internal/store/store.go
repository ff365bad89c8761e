// Package store provides the key-value collaborator that backs the portal
// collections. Every collection is a single JSON-encoded array stored under
// one key; callers read the whole value, mutate in memory and write it back
// (last writer wins, no optimistic concurrency).
package store

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when an operation requires a backing store
// but none was configured.
var ErrNotConfigured = errors.New("key-value store is not configured")

// Store is the minimal contract the portal needs from its key-value backend.
// Get returns an empty string (and no error) for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
