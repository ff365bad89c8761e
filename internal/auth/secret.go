package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// ResolveSecret picks the token signing secret. An explicitly configured
// secret always wins. When only the legacy admin/client portal passwords are
// configured, a deterministic secret is derived from them so login is not
// blocked by a missing explicit secret. The derivation is fixed and must
// not change, or every deployment relying on it loses its sessions:
//
//	sha256("orion-portal:" + adminPassword + ":" + clientPassword)
//
// An empty result means auth is unconfigured; callers must fail closed.
func ResolveSecret(explicit, adminPassword, clientPassword string) string {
	if explicit != "" {
		return explicit
	}
	if adminPassword != "" || clientPassword != "" {
		sum := sha256.Sum256([]byte("orion-portal:" + adminPassword + ":" + clientPassword))
		return hex.EncodeToString(sum[:])
	}
	return ""
}

// Known weak/default secrets that should never be used in production.
var knownWeakSecrets = []string{
	"local-dev-portal-secret-not-for-production",
	"changeme",
	"secret",
	"password",
	"test",
	"dev",
	"development",
}

// CheckSecretStrength validates the resolved signing secret at boot.
// An empty secret is allowed through: the portal starts unconfigured and the
// auth endpoints answer "not configured" until a secret is provided. Weak or
// short secrets are rejected in production and logged in development.
func CheckSecretStrength(secret string, isDev bool, log *slog.Logger) error {
	if secret == "" {
		log.Warn("no signing secret configured; auth endpoints will fail closed")
		return nil
	}

	for _, weak := range knownWeakSecrets {
		if secret == weak {
			if isDev {
				log.Warn("using a known weak signing secret - not for production use")
				return nil
			}
			return fmt.Errorf("default/weak signing secret not allowed in production environment")
		}
	}

	if len(secret) < 32 {
		if isDev {
			log.Warn("signing secret is shorter than 32 characters", "length", len(secret))
			return nil
		}
		return fmt.Errorf("signing secret must be at least 32 characters (got %d)", len(secret))
	}

	return nil
}
