package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ResetTokenTTL is how long a password-reset link stays valid.
const ResetTokenTTL = time.Hour

// ErrInvalidResetToken is the uniform failure for consuming a reset token:
// wrong token, expired token and already-consumed token are deliberately
// indistinguishable.
var ErrInvalidResetToken = errors.New("reset link is invalid or has expired")

// NewResetToken generates a high-entropy reset token. Only the hash is ever
// persisted; the raw hex token goes into the email link and nowhere else.
func NewResetToken() (raw, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, HashResetToken(raw), nil
}

// HashResetToken hashes a raw reset token for storage or lookup.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// BeginReset stamps a pending reset on the user: token hash, expiry and a
// "requested" audit entry carrying the requester IP. The caller persists the
// collection and emails the raw token.
func BeginReset(u *User, raw string, now time.Time, ip string) {
	u.ResetTokenHash = HashResetToken(raw)
	u.ResetTokenExpiresAt = FormatTime(now.Add(ResetTokenTTL))
	entry := NewAuditEntry(now, AuditActionRequested)
	entry.IP = ip
	AppendResetAudit(u, entry)
}

// FindResetCandidate locates the active user whose pending reset matches the
// raw token and has not expired. A cleared hash (already consumed), a hash
// mismatch and a past expiry all return nil.
func FindResetCandidate(users []*User, raw string, now time.Time) *User {
	hash := HashResetToken(raw)
	for _, u := range users {
		if u == nil || !u.IsActive() {
			continue
		}
		if u.ResetTokenHash == "" || u.ResetTokenExpiresAt == "" {
			continue
		}
		if u.ResetTokenHash != hash {
			continue
		}
		expiry, ok := ParseTime(u.ResetTokenExpiresAt)
		if !ok || !expiry.After(now) {
			continue
		}
		return u
	}
	return nil
}

// ConsumeReset rotates the password of whichever user holds the pending
// reset matching the raw token. On success the token hash and expiry are
// cleared (making the token single-use), the inactivity marker is lifted,
// lastPasswordResetAt is stamped and a "completed" audit entry is appended.
// The caller persists the collection.
func ConsumeReset(users []*User, raw, newPassword string, now time.Time, ip string) (*User, error) {
	u := FindResetCandidate(users, raw, now)
	if u == nil {
		return nil, ErrInvalidResetToken
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	u.PasswordHash = hash
	u.ResetTokenHash = ""
	u.ResetTokenExpiresAt = ""
	u.InactivityResetRequiredAt = ""
	u.LastPasswordResetAt = FormatTime(now)
	entry := NewAuditEntry(now, AuditActionCompleted)
	entry.IP = ip
	AppendResetAudit(u, entry)
	return u, nil
}
