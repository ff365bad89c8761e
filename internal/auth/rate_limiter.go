package auth

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter tracks request attempts per key (typically a client IP) over a
// sliding window. The portal uses it on the public contact endpoint.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	now      func() time.Time
}

// NewRateLimiter creates a rate limiter using the wall clock.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// NewRateLimiterWithClock creates a rate limiter with an injected clock for
// deterministic tests.
func NewRateLimiterWithClock(now func() time.Time) *RateLimiter {
	rl := NewRateLimiter()
	if now != nil {
		rl.now = now
	}
	return rl
}

// CheckLimit records an attempt for key and returns an error if the key has
// exceeded maxAttempts within the window.
func (rl *RateLimiter) CheckLimit(key string, maxAttempts int, window time.Duration) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	var recent []time.Time
	for _, t := range rl.attempts[key] {
		if now.Sub(t) < window {
			recent = append(recent, t)
		}
	}

	if len(recent) >= maxAttempts {
		return fmt.Errorf("too many attempts, try again in %v", window)
	}

	rl.attempts[key] = append(recent, now)
	return nil
}

// ResetLimit clears the recorded attempts for a key.
func (rl *RateLimiter) ResetLimit(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, key)
}

// Cleanup drops entries older than maxAge so the attempt map does not grow
// without bound.
func (rl *RateLimiter) Cleanup(maxAge time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, attempts := range rl.attempts {
		var recent []time.Time
		for _, t := range attempts {
			if now.Sub(t) < maxAge {
				recent = append(recent, t)
			}
		}
		if len(recent) == 0 {
			delete(rl.attempts, key)
		} else {
			rl.attempts[key] = recent
		}
	}
}
