package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/oriongle/portal-server/internal/auth"
)

type contextKey string

const sessionContextKey contextKey = "portal_session"

// RequireRole returns middleware that authenticates the session cookie via
// the guard and rejects requests whose session is missing, invalid or not of
// the required role. All failures get the same 401 body so a caller cannot
// distinguish a bad cookie from a wrong role.
func RequireRole(guard *auth.Guard, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := guard.RequireRole(role, r)
			if session == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"error": "Unauthorized",
				})
				return
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the authenticated session placed by RequireRole,
// or nil when the request did not pass through it.
func SessionFromContext(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
