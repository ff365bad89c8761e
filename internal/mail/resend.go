// Package mail sends transactional email through the Resend HTTP API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// Message is one outbound email.
type Message struct {
	From    string `json:"from"`
	ReplyTo string `json:"reply_to,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Sender delivers messages. A nil Sender means outbound mail is not
// configured and callers must degrade gracefully.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Resend sends through api.resend.com with a bearer API key.
type Resend struct {
	apiKey string
	client *http.Client
}

// NewResend returns a Resend sender, or nil when the API key is empty.
func NewResend(apiKey string) *Resend {
	if apiKey == "" {
		return nil
	}
	return &Resend{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the message to the Resend API.
func (r *Resend) Send(ctx context.Context, msg Message) error {
	payload := struct {
		From    string   `json:"from"`
		ReplyTo string   `json:"reply_to,omitempty"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		Text    string   `json:"text"`
	}{
		From:    msg.From,
		ReplyTo: msg.ReplyTo,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("resend api status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
