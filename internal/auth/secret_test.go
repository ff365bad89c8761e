package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSecretExplicitWins(t *testing.T) {
	assert.Equal(t, "explicit", ResolveSecret("explicit", "adminpw", "clientpw"))
}

func TestResolveSecretDerivedFallback(t *testing.T) {
	sum := sha256.Sum256([]byte("orion-portal:adminpw:clientpw"))
	want := hex.EncodeToString(sum[:])

	assert.Equal(t, want, ResolveSecret("", "adminpw", "clientpw"))
	// Stable across calls.
	assert.Equal(t, want, ResolveSecret("", "adminpw", "clientpw"))
	// A single configured password still derives.
	assert.NotEmpty(t, ResolveSecret("", "adminpw", ""))
	assert.NotEmpty(t, ResolveSecret("", "", "clientpw"))
}

func TestResolveSecretUnconfigured(t *testing.T) {
	assert.Empty(t, ResolveSecret("", "", ""))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckSecretStrength(t *testing.T) {
	log := discardLogger()

	// Empty passes: the server boots unconfigured and fails closed per request.
	require.NoError(t, CheckSecretStrength("", false, log))

	// Weak secrets are fatal in production, tolerated in development.
	require.Error(t, CheckSecretStrength("changeme", false, log))
	require.NoError(t, CheckSecretStrength("changeme", true, log))

	// Short secrets likewise.
	require.Error(t, CheckSecretStrength("short", false, log))
	require.NoError(t, CheckSecretStrength("short", true, log))

	require.NoError(t, CheckSecretStrength("a-sufficiently-long-production-secret", false, log))
}
