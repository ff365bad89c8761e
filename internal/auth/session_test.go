package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithCookie(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	return r
}

func TestGuardAuthenticate(t *testing.T) {
	codec := NewCodec()
	guard := NewGuard(codec, "test-secret")

	token, err := codec.Sign(map[string]any{
		"role": RoleClient, "email": "c@example.com", "uid": "u1", "src": "kv",
	}, "test-secret", "1h")
	require.NoError(t, err)

	sess := guard.Authenticate(requestWithCookie(token))
	require.NotNil(t, sess)
	assert.Equal(t, RoleClient, sess.Role)
	assert.Equal(t, "c@example.com", sess.Email)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "kv", sess.Source)
}

func TestGuardRejects(t *testing.T) {
	codec := NewCodec()
	guard := NewGuard(codec, "test-secret")

	// No cookie.
	assert.Nil(t, guard.Authenticate(requestWithCookie("")))

	// Token signed with another secret.
	other, err := codec.Sign(map[string]any{"role": RoleAdmin}, "other-secret", "1h")
	require.NoError(t, err)
	assert.Nil(t, guard.Authenticate(requestWithCookie(other)))

	// Unconfigured guard rejects even its own token.
	token, err := codec.Sign(map[string]any{"role": RoleAdmin}, "test-secret", "1h")
	require.NoError(t, err)
	unconfigured := NewGuard(codec, "")
	assert.False(t, unconfigured.Configured())
	assert.Nil(t, unconfigured.Authenticate(requestWithCookie(token)))
}

func TestGuardRequireRole(t *testing.T) {
	codec := NewCodec()
	guard := NewGuard(codec, "test-secret")

	token, err := codec.Sign(map[string]any{"role": RoleClient, "email": "c@example.com"}, "test-secret", "1h")
	require.NoError(t, err)

	assert.NotNil(t, guard.RequireRole(RoleClient, requestWithCookie(token)))
	assert.Nil(t, guard.RequireRole(RoleAdmin, requestWithCookie(token)))
}
