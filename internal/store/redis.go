package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is the primary Store backend. The hosted portal uses a managed
// Redis-compatible service, so the connection URL and token arrive through
// the same environment aliases the rest of the deployment uses.
type Redis struct {
	client *redis.Client
}

// NewRedis opens a Redis-backed store from a redis:// or rediss:// URL.
// A non-empty token overrides the password embedded in the URL.
func NewRedis(rawURL, token string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid store URL: %w", err)
	}
	if token != "" {
		opts.Password = token
	}
	return &Redis{client: redis.NewClient(opts)}, nil
}

// Get returns the value for key, or an empty string if the key is absent.
func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store get %q: %w", key, err)
	}
	return val, nil
}

// Set writes value under key with no expiry.
func (s *Redis) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("store set %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Redis) Close() error {
	return s.client.Close()
}
