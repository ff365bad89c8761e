package auth

import "net/http"

// SessionCookieName is the cookie carrying the signed portal session token.
const SessionCookieName = "orion_portal_session"

// Guard authenticates requests from the session cookie. All failure modes
// (missing cookie, unconfigured secret, tampered or expired token, wrong
// role) look identical to the caller.
type Guard struct {
	codec  *Codec
	secret string
}

// NewGuard builds a Guard for the resolved signing secret. An empty secret
// produces a guard that rejects everything (auth unconfigured, fail closed).
func NewGuard(codec *Codec, secret string) *Guard {
	return &Guard{codec: codec, secret: secret}
}

// Configured reports whether a signing secret was resolved.
func (g *Guard) Configured() bool {
	return g.secret != ""
}

// Authenticate extracts and verifies the session cookie. It returns nil for
// any failure, with no detail about which check failed.
func (g *Guard) Authenticate(r *http.Request) *Session {
	if g.secret == "" {
		return nil
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims := g.codec.Verify(cookie.Value, g.secret)
	if claims == nil {
		return nil
	}
	return &Session{
		Role:   claimString(claims, "role"),
		Email:  claimString(claims, "email"),
		UserID: claimString(claims, "uid"),
		Source: claimString(claims, "src"),
	}
}

// RequireRole authenticates the request and additionally checks the claimed
// role. A missing session and a wrong role are indistinguishable.
func (g *Guard) RequireRole(role string, r *http.Request) *Session {
	sess := g.Authenticate(r)
	if sess == nil || sess.Role != role {
		return nil
	}
	return sess
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
