package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiterWithClock(func() time.Time { return now })

	for i := 0; i < 5; i++ {
		require.NoError(t, rl.CheckLimit("1.2.3.4", 5, 5*time.Minute))
	}
	assert.Error(t, rl.CheckLimit("1.2.3.4", 5, 5*time.Minute))

	// Other keys are unaffected.
	assert.NoError(t, rl.CheckLimit("5.6.7.8", 5, 5*time.Minute))

	// Attempts age out of the window.
	now = now.Add(5*time.Minute + time.Second)
	assert.NoError(t, rl.CheckLimit("1.2.3.4", 5, 5*time.Minute))
}

func TestRateLimiterReset(t *testing.T) {
	rl := NewRateLimiter()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.CheckLimit("key", 3, time.Hour))
	}
	assert.Error(t, rl.CheckLimit("key", 3, time.Hour))

	rl.ResetLimit("key")
	assert.NoError(t, rl.CheckLimit("key", 3, time.Hour))
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiterWithClock(func() time.Time { return now })

	require.NoError(t, rl.CheckLimit("old", 10, time.Hour))
	now = now.Add(2 * time.Hour)
	require.NoError(t, rl.CheckLimit("fresh", 10, time.Hour))

	rl.Cleanup(time.Hour)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.attempts, "old")
	assert.Contains(t, rl.attempts, "fresh")
}
