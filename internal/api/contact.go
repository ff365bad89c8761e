package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oriongle/portal-server/internal/mail"
	"github.com/oriongle/portal-server/internal/middleware"
)

// turnstileEndpoint is a variable so tests can point it at a stub server.
var turnstileEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	// Company is a honeypot. Humans never see the field; anything filling it
	// is a bot and gets a silent success.
	Company        string `json:"company"`
	TurnstileToken string `json:"turnstileToken"`
}

// Contact relays a website enquiry to the configured inbox.
func (s *Server) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	if strings.TrimSpace(req.Company) != "" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)
	if name == "" || email == "" || message == "" {
		writeError(w, http.StatusBadRequest, "Name, email and message are required")
		return
	}
	if !strings.Contains(email, "@") {
		writeError(w, http.StatusBadRequest, "A valid email address is required")
		return
	}

	if s.cfg.TurnstileSecretKey != "" {
		ok, err := s.verifyTurnstile(r.Context(), req.TurnstileToken, middleware.GetClientIP(r))
		if err != nil {
			s.log.Error("contact: turnstile verify", "error", err)
			writeError(w, http.StatusInternalServerError, "Unable to verify the request")
			return
		}
		if !ok {
			writeError(w, http.StatusBadRequest, "Verification failed, please try again")
			return
		}
	}

	if s.mailer == nil {
		writeError(w, http.StatusInternalServerError, "Contact form is not configured")
		return
	}

	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\n%s\n", name, email, strings.TrimSpace(req.Phone), message)
	msg := mail.Message{
		From:    s.cfg.ContactFrom,
		ReplyTo: email,
		To:      s.cfg.ContactTo,
		Subject: "New website enquiry from " + name,
		Text:    body,
	}
	if err := s.mailer.Send(r.Context(), msg); err != nil {
		s.log.Error("contact: send mail", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to send your message, please try again later")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) verifyTurnstile(ctx context.Context, token, remoteIP string) (bool, error) {
	if token == "" {
		return false, nil
	}

	form := url.Values{
		"secret":   {s.cfg.TurnstileSecretKey},
		"response": {token},
		"remoteip": {remoteIP},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, turnstileEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	return result.Success, nil
}
