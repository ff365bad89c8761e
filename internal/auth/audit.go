package auth

import "time"

// Reset-audit actions. The audit trail lives on the user record itself and
// is bounded, so it survives exactly as long as the account does.
const (
	AuditActionRequested          = "requested"
	AuditActionCompleted          = "completed"
	AuditActionAdminReset         = "admin_reset"
	AuditActionInactivityRequired = "required_due_inactivity"
)

// MaxResetAuditEntries bounds the per-user audit trail; the oldest entries
// are evicted first.
const MaxResetAuditEntries = 50

// AppendResetAudit appends an audit entry to the user, evicting the oldest
// entries beyond the bound.
func AppendResetAudit(u *User, entry ResetAuditEntry) {
	audit := u.ResetAudit
	if len(audit) >= MaxResetAuditEntries {
		audit = audit[len(audit)-(MaxResetAuditEntries-1):]
	}
	u.ResetAudit = append(audit, entry)
}

// NewAuditEntry builds an audit entry stamped with the given time.
func NewAuditEntry(at time.Time, action string) ResetAuditEntry {
	return ResetAuditEntry{At: FormatTime(at), Action: action}
}
