package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Backend identifies which Store implementation a connection URL selects.
type Backend string

const (
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// BackendFor inspects the URL scheme and picks the matching backend.
func BackendFor(rawURL string) (Backend, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid store URL: %w", err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "redis", "rediss":
		return BackendRedis, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("unsupported store URL scheme %q (expected redis://, rediss:// or postgres://)", parsed.Scheme)
	}
}

// ValidateURL checks that the store connection URL uses appropriate TLS
// settings for the current environment. Development mode allows anything.
func ValidateURL(rawURL string, isDev bool) error {
	if rawURL == "" {
		return fmt.Errorf("store URL is required")
	}
	if isDev {
		return nil
	}

	backend, err := BackendFor(rawURL)
	if err != nil {
		return err
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid store URL format: %w", err)
	}

	switch backend {
	case BackendRedis:
		if !strings.EqualFold(parsed.Scheme, "rediss") {
			return fmt.Errorf("redis TLS required in production (use rediss:// instead of %s://)", parsed.Scheme)
		}
	case BackendPostgres:
		sslMode := parsed.Query().Get("sslmode")
		allowedModes := map[string]bool{
			"require":     true,
			"verify-ca":   true,
			"verify-full": true,
		}
		if !allowedModes[sslMode] {
			return fmt.Errorf("postgres SSL required in production (sslmode=%q not allowed, must be one of: require, verify-ca, verify-full)", sslMode)
		}
	}
	return nil
}

// Open dials the backend selected by the URL scheme.
func Open(ctx context.Context, rawURL, token string) (Store, error) {
	backend, err := BackendFor(rawURL)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendPostgres:
		return NewPostgres(ctx, rawURL)
	default:
		return NewRedis(rawURL, token)
	}
}
