package auth

import "time"

// DefaultInactivityResetDays is the inactivity window after which a login is
// refused until the password is reset.
const DefaultInactivityResetDays = 60

// NormalizeInactivityDays clamps a configured threshold to something usable;
// zero or negative values fall back to the default.
func NormalizeInactivityDays(days int) int {
	if days < 1 {
		return DefaultInactivityResetDays
	}
	return days
}

// LatestActivity returns the most recent qualifying activity on the account:
// last login, last password reset or creation. The second return value is
// false when none of the timestamps parse, in which case the inactivity
// policy does not apply (legacy records without timestamps stay usable).
func LatestActivity(u *User) (time.Time, bool) {
	var latest time.Time
	var found bool
	for _, s := range []string{u.LastLoginAt, u.LastPasswordResetAt, u.CreatedAt} {
		if t, ok := ParseTime(s); ok && t.After(latest) {
			latest = t
			found = true
		}
	}
	return latest, found
}

// RequiresInactivityReset reports whether the account has been idle for at
// least the threshold and must reset its password before logging in.
func RequiresInactivityReset(u *User, days int, now time.Time) bool {
	last, ok := LatestActivity(u)
	if !ok {
		return false
	}
	return now.Sub(last) >= time.Duration(days)*24*time.Hour
}

// MarkInactivityReset records the forced-reset marker and audit entry once
// per inactivity episode. It reports whether the user record was mutated and
// therefore needs persisting; repeat refused logins leave the record alone.
func MarkInactivityReset(u *User, days int, now time.Time) bool {
	if u.InactivityResetRequiredAt != "" {
		return false
	}
	u.InactivityResetRequiredAt = FormatTime(now)
	entry := NewAuditEntry(now, AuditActionInactivityRequired)
	entry.Days = days
	AppendResetAudit(u, entry)
	return true
}
