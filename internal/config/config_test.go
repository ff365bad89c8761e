package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 60, cfg.InactivityResetDays)
	assert.Equal(t, "support@oriongle.co.uk", cfg.ContactTo)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadAliasChains(t *testing.T) {
	// Lower-priority aliases are used only when the primary is unset.
	t.Setenv("JWT_SECRET", "from-jwt-secret")
	t.Setenv("OWNER_PORTAL_EMAIL", "owner@example.com")
	t.Setenv("UPSTASH_REDIS_REST_URL", "rediss://host:6380")
	t.Setenv("UPSTASH_REDIS_REST_TOKEN", "tok")
	t.Setenv("RESEND_KEY", "re_123")
	t.Setenv("SITE_URL", "https://oriongle.co.uk/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-jwt-secret", cfg.JWTSecret)
	assert.Equal(t, "owner@example.com", cfg.AdminEmail)
	assert.Equal(t, "rediss://host:6380", cfg.StoreURL)
	assert.Equal(t, "tok", cfg.StoreToken)
	assert.Equal(t, "re_123", cfg.ResendAPIKey)
	// Trailing slash is trimmed so link building can always append a path.
	assert.Equal(t, "https://oriongle.co.uk", cfg.SiteURL)

	// The primary name wins over any alias.
	t.Setenv("PORTAL_JWT_SECRET", "from-primary")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "from-primary", cfg.JWTSecret)
}

func TestIsDevelopment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())

	t.Setenv("ENVIRONMENT", "")
	t.Setenv("GO_ENV", "dev")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())

	t.Setenv("GO_ENV", "production")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
}
