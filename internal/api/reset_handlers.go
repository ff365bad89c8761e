package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/oriongle/portal-server/internal/auth"
	"github.com/oriongle/portal-server/internal/mail"
	"github.com/oriongle/portal-server/internal/middleware"
)

const resetGenericMessage = "If an account exists for that email, a reset link has been sent."

type forgotPasswordRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ForgotPassword starts the reset flow. The response is the same generic
// message whether or not the email matches an account, so the endpoint
// cannot be used to enumerate users. An optional role narrows the match,
// with the same generic answer on a mismatch. No token is generated when
// the directory or the mailer is unconfigured.
func (s *Server) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "owner" {
		role = auth.RoleAdmin
	}

	generic := func() {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": resetGenericMessage})
	}

	if !s.dir.Enabled() || s.mailer == nil {
		generic()
		return
	}

	set, err := s.dir.LoadUsers(r.Context())
	if err != nil {
		s.log.Error("forgot password: load users", "error", err)
		generic()
		return
	}

	user := set.FindActiveByEmail(email)
	if user != nil && role != "" && user.Role != role {
		user = nil
	}
	if user == nil {
		generic()
		return
	}

	raw, _, err := auth.NewResetToken()
	if err != nil {
		s.log.Error("forgot password: generate token", "error", err)
		generic()
		return
	}

	auth.BeginReset(user, raw, s.now(), middleware.GetClientIP(r))
	if err := s.dir.SaveUsers(r.Context(), set.Users); err != nil {
		s.log.Error("forgot password: persist token", "error", err)
		generic()
		return
	}

	link := s.cfg.SiteURL + "/portal/reset-password?token=" + raw
	msg := mail.Message{
		From:    s.cfg.ResetFrom,
		To:      user.Email,
		Subject: "Reset your portal password",
		Text: fmt.Sprintf("Hello,\n\nA password reset was requested for your portal account. Use the link below within one hour to choose a new password:\n\n%s\n\nIf you did not request this, you can ignore this email.\n", link),
	}
	if err := s.mailer.Send(r.Context(), msg); err != nil {
		s.log.Error("forgot password: send mail", "error", err)
	}
	generic()
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes a reset token and rotates the password. Token
// failures all produce the same message.
func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "Reset token is required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	set, err := s.dir.LoadUsers(r.Context())
	if err != nil {
		s.log.Error("reset password: load users", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to process reset")
		return
	}

	user, err := auth.ConsumeReset(set.Users, strings.TrimSpace(req.Token), req.Password, s.now(), middleware.GetClientIP(r))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidResetToken) {
			writeError(w, http.StatusBadRequest, "Reset link is invalid or has expired")
			return
		}
		s.log.Error("reset password: consume token", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to process reset")
		return
	}

	if err := s.dir.SaveUsers(r.Context(), set.Users); err != nil {
		s.log.Error("reset password: persist", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to process reset")
		return
	}

	s.log.Info("password reset completed", "userId", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
