// Package api implements the portal's HTTP surface: public auth and contact
// endpoints, the admin console API and the client file API.
package api

import (
	"log/slog"
	"time"

	"github.com/oriongle/portal-server/internal/auth"
	"github.com/oriongle/portal-server/internal/config"
	"github.com/oriongle/portal-server/internal/directory"
	"github.com/oriongle/portal-server/internal/mail"
)

// Server bundles the handler dependencies. One instance serves all routes.
type Server struct {
	cfg     *config.Config
	secret  string
	codec   *auth.Codec
	guard   *auth.Guard
	dir     *directory.Directory
	mailer  mail.Sender
	limiter *auth.RateLimiter
	log     *slog.Logger
	now     func() time.Time
}

// NewServer wires a Server. mailer may be nil (outbound mail unconfigured)
// and dir may wrap a nil store (directory unconfigured); the handlers degrade
// per endpoint instead of failing at boot.
func NewServer(cfg *config.Config, secret string, codec *auth.Codec, dir *directory.Directory, mailer mail.Sender, limiter *auth.RateLimiter, log *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		secret:  secret,
		codec:   codec,
		guard:   auth.NewGuard(codec, secret),
		dir:     dir,
		mailer:  mailer,
		limiter: limiter,
		log:     log,
		now:     time.Now,
	}
}

// WithClock replaces the server clock. Tests use this to pin time.
func (s *Server) WithClock(now func() time.Time) *Server {
	if now != nil {
		s.now = now
	}
	return s
}

// Guard exposes the session guard for route middleware.
func (s *Server) Guard() *auth.Guard {
	return s.guard
}
