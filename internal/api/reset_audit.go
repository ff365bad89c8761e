package api

import (
	"net/http"
	"sort"
)

type auditView struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	At     string `json:"at"`
	Action string `json:"action"`
	IP     string `json:"ip,omitempty"`
	By     string `json:"by,omitempty"`
	Days   int    `json:"days,omitempty"`
}

// ResetAudit flattens every user's reset-audit trail into one list, newest
// first, for the admin console.
func (s *Server) ResetAudit(w http.ResponseWriter, r *http.Request) {
	set, err := s.dir.LoadUsers(r.Context())
	if err != nil {
		s.log.Error("reset audit: load users", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load audit")
		return
	}

	entries := make([]auditView, 0)
	for _, u := range set.Users {
		for _, e := range u.ResetAudit {
			entries = append(entries, auditView{
				UserID: u.ID,
				Email:  u.Email,
				At:     e.At,
				Action: e.Action,
				IP:     e.IP,
				By:     e.By,
				Days:   e.Days,
			})
		}
	}
	// RFC 3339 strings sort chronologically.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].At > entries[j].At
	})

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "entries": entries})
}
