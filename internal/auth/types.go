package auth

import (
	"strings"
	"time"
)

// Portal roles. There are exactly two; "owner" is accepted on login as an
// alias for admin but is never stored.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// ValidRole reports whether role is one of the two portal roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleClient
}

// User is a portal account as persisted in the user directory. Timestamps
// are RFC 3339 strings to stay wire-compatible with existing records; an
// empty string means unset. PasswordHash is stored but must never reach a
// client-facing view.
type User struct {
	ID              string           `json:"id"`
	FullName        string           `json:"fullName,omitempty"`
	Company         string           `json:"company,omitempty"`
	Phone           string           `json:"phone,omitempty"`
	Project         string           `json:"project,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	PortalTitle     string           `json:"portalTitle,omitempty"`
	PortalMessage   string           `json:"portalMessage,omitempty"`
	PortalDownloads []PortalDownload `json:"portalDownloads,omitempty"`
	Email           string           `json:"email"`
	Role            string           `json:"role"`
	PasswordHash    string           `json:"passwordHash,omitempty"`
	Active          *bool            `json:"active,omitempty"`
	CreatedAt       string           `json:"createdAt,omitempty"`
	LastLoginAt     string           `json:"lastLoginAt,omitempty"`

	LastPasswordResetAt       string            `json:"lastPasswordResetAt,omitempty"`
	InactivityResetRequiredAt string            `json:"inactivityResetRequiredAt,omitempty"`
	ResetTokenHash            string            `json:"resetTokenHash,omitempty"`
	ResetTokenExpiresAt       string            `json:"resetTokenExpiresAt,omitempty"`
	ResetAudit                []ResetAuditEntry `json:"resetAudit,omitempty"`

	Source string `json:"source,omitempty"`
}

// IsActive reports whether the account may log in. Records without an
// explicit active flag predate deactivation support and count as active.
func (u *User) IsActive() bool {
	return u.Active == nil || *u.Active
}

// SetActive sets the explicit active flag.
func (u *User) SetActive(active bool) {
	u.Active = &active
}

// EmailMatches compares the user's email case-insensitively.
func (u *User) EmailMatches(email string) bool {
	return strings.EqualFold(u.Email, email)
}

// PortalDownload is an admin-curated download link shown on a client's
// portal page.
type PortalDownload struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Note  string `json:"note,omitempty"`
}

// ResetAuditEntry records one password-reset lifecycle event on a user.
type ResetAuditEntry struct {
	At     string `json:"at"`
	Action string `json:"action"`
	IP     string `json:"ip,omitempty"`
	By     string `json:"by,omitempty"`
	Days   int    `json:"days,omitempty"`
}

// Session is the authenticated identity extracted from a verified token.
type Session struct {
	Role   string
	Email  string
	UserID string
	Source string
}

// FormatTime renders a timestamp the way directory records store them.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTime parses a stored timestamp. The second return value is false for
// empty or malformed input, which callers treat as "never".
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
