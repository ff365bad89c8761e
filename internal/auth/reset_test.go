package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	raw, hash, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	sum := sha256.Sum256([]byte(raw))
	assert.Equal(t, hex.EncodeToString(sum[:]), hash)

	raw2, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}

func TestBeginReset(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	u := &User{ID: "u1", Email: "c@example.com", Role: RoleClient}

	BeginReset(u, "rawtoken", now, "203.0.113.9")

	assert.Equal(t, HashResetToken("rawtoken"), u.ResetTokenHash)
	assert.Equal(t, FormatTime(now.Add(time.Hour)), u.ResetTokenExpiresAt)
	require.Len(t, u.ResetAudit, 1)
	assert.Equal(t, AuditActionRequested, u.ResetAudit[0].Action)
	assert.Equal(t, "203.0.113.9", u.ResetAudit[0].IP)
}

func TestConsumeResetSingleUse(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	u := &User{ID: "u1", Email: "c@example.com", Role: RoleClient, InactivityResetRequiredAt: FormatTime(now)}
	BeginReset(u, "rawtoken", now, "")
	users := []*User{u}

	got, err := ConsumeReset(users, "rawtoken", "new-password-1", now.Add(30*time.Minute), "198.51.100.7")
	require.NoError(t, err)
	assert.Same(t, u, got)

	assert.True(t, VerifyPassword("new-password-1", u.PasswordHash))
	assert.Empty(t, u.ResetTokenHash)
	assert.Empty(t, u.ResetTokenExpiresAt)
	assert.Empty(t, u.InactivityResetRequiredAt)
	assert.Equal(t, FormatTime(now.Add(30*time.Minute)), u.LastPasswordResetAt)
	last := u.ResetAudit[len(u.ResetAudit)-1]
	assert.Equal(t, AuditActionCompleted, last.Action)
	assert.Equal(t, "198.51.100.7", last.IP)

	// Second consumption of the same token fails identically to a bad token.
	_, err = ConsumeReset(users, "rawtoken", "another-password", now.Add(31*time.Minute), "")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestConsumeResetExpired(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	u := &User{ID: "u1", Email: "c@example.com", Role: RoleClient}
	BeginReset(u, "rawtoken", now, "")

	_, err := ConsumeReset([]*User{u}, "rawtoken", "new-password-1", now.Add(time.Hour), "")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
	// The pending token is untouched by a failed attempt.
	assert.NotEmpty(t, u.ResetTokenHash)
}

func TestConsumeResetWrongToken(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	u := &User{ID: "u1", Email: "c@example.com", Role: RoleClient}
	BeginReset(u, "rawtoken", now, "")

	_, err := ConsumeReset([]*User{u}, "other", "new-password-1", now.Add(time.Minute), "")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestConsumeResetInactiveUser(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	u := &User{ID: "u1", Email: "c@example.com", Role: RoleClient}
	BeginReset(u, "rawtoken", now, "")
	u.SetActive(false)

	_, err := ConsumeReset([]*User{u}, "rawtoken", "new-password-1", now.Add(time.Minute), "")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAppendResetAuditBound(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	u := &User{ID: "u1"}

	for i := 0; i < MaxResetAuditEntries+10; i++ {
		entry := NewAuditEntry(now.Add(time.Duration(i)*time.Minute), fmt.Sprintf("action-%d", i))
		AppendResetAudit(u, entry)
	}

	require.Len(t, u.ResetAudit, MaxResetAuditEntries)
	// The oldest entries were evicted; the newest survives at the tail.
	assert.Equal(t, "action-10", u.ResetAudit[0].Action)
	assert.Equal(t, fmt.Sprintf("action-%d", MaxResetAuditEntries+9), u.ResetAudit[len(u.ResetAudit)-1].Action)
}
