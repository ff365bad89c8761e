package auth

import (
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when a TTL string cannot be parsed.
const DefaultTokenTTL = 12 * time.Hour

var ttlPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseTTL converts a duration string of the form <integer><s|m|h|d> into a
// time.Duration. Unrecognized input falls back to DefaultTokenTTL so a typo
// in configuration never produces a non-expiring token.
func ParseTTL(ttl string) time.Duration {
	m := ttlPattern.FindStringSubmatch(ttl)
	if m == nil {
		return DefaultTokenTTL
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return DefaultTokenTTL
	}
	switch m[2] {
	case "s":
		return time.Duration(n) * time.Second
	case "m":
		return time.Duration(n) * time.Minute
	case "h":
		return time.Duration(n) * time.Hour
	default:
		return time.Duration(n) * 24 * time.Hour
	}
}

// Codec signs and verifies the portal session tokens. The wire format is a
// standard compact JWS (HS256, URL-safe unpadded base64 segments), so any
// off-the-shelf JWT verifier sharing the secret can consume the tokens.
type Codec struct {
	now func() time.Time
}

// NewCodec returns a Codec using the wall clock.
func NewCodec() *Codec {
	return &Codec{now: time.Now}
}

// NewCodecWithClock returns a Codec with an injected clock so expiry
// behavior is deterministic in tests.
func NewCodecWithClock(now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{now: now}
}

// Sign issues a token carrying the given claims plus iat/exp. The claims map
// is not mutated.
func (c *Codec) Sign(claims map[string]any, secret, ttl string) (string, error) {
	now := c.now()
	mc := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(ParseTTL(ttl)).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return token.SignedString([]byte(secret))
}

// Verify checks the signature and expiry of a token and returns its claims,
// or nil for anything invalid: bad segment count, tampered signature, wrong
// algorithm, malformed base64/JSON, missing or past expiry. Callers never
// learn which check failed.
func (c *Codec) Verify(tokenString, secret string) map[string]any {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}
