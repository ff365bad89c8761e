package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/oriongle/portal-server/internal/auth"
	"github.com/oriongle/portal-server/internal/middleware"
)

const (
	contactMaxAttempts = 5
	contactWindow      = 5 * time.Minute
)

// Routes builds the portal router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(s.cfg.AllowedOrigins))
	r.Use(middleware.MaxBodySize(maxJSONBody))

	r.Get("/health", s.Health)
	r.Get("/api/status", s.Status)

	r.With(middleware.RateLimit(s.limiter, contactMaxAttempts, contactWindow)).
		Post("/api/contact", s.Contact)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", s.Login)
		r.Post("/logout", s.Logout)
		r.Get("/me", s.Me)
		r.Post("/forgot-password", s.ForgotPassword)
		r.Post("/reset-password", s.ResetPassword)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(s.guard, auth.RoleAdmin))

		r.Get("/users", s.ListUsers)
		r.Post("/users", s.CreateUser)
		r.Patch("/users/{id}", s.UpdateUser)
		r.Delete("/users/{id}", s.DeleteUser)

		r.Get("/files", s.AdminListFiles)
		r.Post("/files", s.AdminUploadFile)
		r.Get("/files/{id}/download", s.AdminDownloadFile)
		r.Patch("/files/{id}", s.AdminUpdateFile)
		r.Delete("/files/{id}", s.AdminDeleteFile)

		r.Post("/folders", s.AdminCreateFolder)
		r.Patch("/folders/{id}", s.AdminUpdateFolder)
		r.Delete("/folders/{id}", s.AdminDeleteFolder)

		r.Get("/reset-audit", s.ResetAudit)
	})

	r.Route("/api/client", func(r chi.Router) {
		r.Use(middleware.RequireRole(s.guard, auth.RoleClient))

		r.Get("/files", s.ClientListFiles)
		r.Get("/files/{id}/download", s.ClientDownloadFile)
	})

	return r
}
