package api

import (
	"net/http"
	"strings"

	"github.com/oriongle/portal-server/internal/auth"
	"github.com/oriongle/portal-server/internal/middleware"
)

const sessionMaxAgeSeconds = 43200 // matches the 12h token TTL

type loginRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the environment break-glass credentials first,
// then the user directory. Every credential failure gets the same 401; the
// one distinguishable refusal is the forced inactivity reset, which the
// portal UI has to explain to the user.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "owner" {
		role = auth.RoleAdmin
	}
	email := strings.TrimSpace(req.Email)
	if !auth.ValidRole(role) || email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Role, email and password are required")
		return
	}

	if s.secret == "" {
		writeError(w, http.StatusInternalServerError, "Portal login is not configured")
		return
	}

	if s.envCredentialsMatch(role, email, req.Password) {
		s.issueSession(w, role, email, "env-"+role, "env")
		return
	}

	set, err := s.dir.LoadUsers(r.Context())
	if err != nil {
		s.log.Error("login: load users", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to process login")
		return
	}

	user := set.FindActiveByEmail(email)
	if user == nil || user.Role != role || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	now := s.now()
	days := auth.NormalizeInactivityDays(s.cfg.InactivityResetDays)
	if auth.RequiresInactivityReset(user, days, now) {
		if auth.MarkInactivityReset(user, days, now) {
			if err := s.dir.SaveUsers(r.Context(), set.Users); err != nil {
				s.log.Error("login: persist inactivity marker", "error", err)
			}
		}
		writeError(w, http.StatusForbidden, "For security, a password reset is required after a period of inactivity. Please use the forgot password link.")
		return
	}

	user.LastLoginAt = auth.FormatTime(now)
	user.InactivityResetRequiredAt = ""
	if err := s.dir.SaveUsers(r.Context(), set.Users); err != nil {
		s.log.Error("login: persist last login", "error", err)
	}

	s.issueSession(w, user.Role, user.Email, user.ID, "kv")
}

// envCredentialsMatch checks the break-glass credentials from the
// environment. Both the email and the password must be configured and
// non-empty, so an unset variable can never match an empty submission.
func (s *Server) envCredentialsMatch(role, email, password string) bool {
	var wantEmail, wantPassword string
	switch role {
	case auth.RoleAdmin:
		wantEmail, wantPassword = s.cfg.AdminEmail, s.cfg.AdminPassword
	case auth.RoleClient:
		wantEmail, wantPassword = s.cfg.ClientEmail, s.cfg.ClientPassword
	}
	if wantEmail == "" || wantPassword == "" {
		return false
	}
	return strings.EqualFold(email, wantEmail) && password == wantPassword
}

func (s *Server) issueSession(w http.ResponseWriter, role, email, userID, source string) {
	claims := map[string]any{"role": role, "email": email, "src": source}
	if userID != "" {
		claims["uid"] = userID
	}
	token, err := s.codec.Sign(claims, s.secret, "12h")
	if err != nil {
		s.log.Error("sign session token", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to process login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionMaxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !s.cfg.IsDevelopment(),
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "role": role, "email": email})
}

// Logout clears the session cookie. It succeeds whether or not a valid
// session was presented.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !s.cfg.IsDevelopment(),
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Me reports the authenticated session's identity. Directory-backed
// sessions additionally carry the user's portal profile; a session whose
// user was deleted or deactivated since login stops being valid here.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		session = s.guard.Authenticate(r)
	}
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resp := map[string]any{"ok": true, "role": session.Role, "email": session.Email}
	if session.Source != "" {
		resp["source"] = session.Source
	}

	if session.UserID != "" {
		resp["userId"] = session.UserID
	}

	// Break-glass sessions have no directory record to enrich or revalidate.
	if session.UserID != "" && session.Source != "env" {
		set, err := s.dir.LoadUsers(r.Context())
		if err != nil {
			s.log.Error("me: load users", "error", err)
			writeError(w, http.StatusInternalServerError, "Unable to load account")
			return
		}
		if set.Enabled {
			user := set.FindByID(session.UserID)
			if user == nil || !user.IsActive() {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			resp["fullName"] = user.FullName
			resp["company"] = user.Company
			resp["project"] = user.Project
			resp["portalTitle"] = user.PortalTitle
			resp["portalMessage"] = user.PortalMessage
			if len(user.PortalDownloads) > 0 {
				resp["portalDownloads"] = user.PortalDownloads
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
