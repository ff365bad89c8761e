// Package config loads portal settings from the environment. Several
// settings historically shipped under more than one variable name; Load
// resolves each alias chain in priority order so older deployments keep
// working unchanged.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting the portal server reads.
type Config struct {
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT"`
	GoEnv       string `envconfig:"GO_ENV"`

	InactivityResetDays int `envconfig:"PORTAL_INACTIVITY_RESET_DAYS" default:"60"`

	ContactTo   string `envconfig:"CONTACT_TO" default:"support@oriongle.co.uk"`
	ContactFrom string `envconfig:"CONTACT_FROM" default:"Orion GLE Website <onboarding@resend.dev>"`
	ResetFrom   string `envconfig:"RESET_FROM" default:"Orion GLE Website <onboarding@resend.dev>"`

	TurnstileSecretKey string   `envconfig:"TURNSTILE_SECRET_KEY"`
	AllowedOrigins     []string `envconfig:"ALLOWED_ORIGINS"`

	// Alias-resolved settings, filled by Load rather than envconfig.
	JWTSecret      string `ignored:"true"`
	AdminEmail     string `ignored:"true"`
	AdminPassword  string `ignored:"true"`
	ClientEmail    string `ignored:"true"`
	ClientPassword string `ignored:"true"`
	StoreURL       string `ignored:"true"`
	StoreToken     string `ignored:"true"`
	ResendAPIKey   string `ignored:"true"`
	SiteURL        string `ignored:"true"`
}

// Load reads the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.JWTSecret = firstEnv("PORTAL_JWT_SECRET", "PORTAL_SECRET", "JWT_SECRET", "AUTH_SECRET")
	cfg.AdminEmail = firstEnv("ADMIN_PORTAL_EMAIL", "OWNER_PORTAL_EMAIL")
	cfg.AdminPassword = firstEnv("ADMIN_PORTAL_PASSWORD", "OWNER_PORTAL_PASSWORD")
	cfg.ClientEmail = firstEnv("CLIENT_PORTAL_EMAIL")
	cfg.ClientPassword = firstEnv("CLIENT_PORTAL_PASSWORD")
	cfg.StoreURL = firstEnv("KV_REST_API_URL", "UPSTASH_REDIS_REST_URL", "STORAGE_REST_API_URL", "STORAGE_URL", "STORAGE_REDIS_REST_URL")
	cfg.StoreToken = firstEnv("KV_REST_API_TOKEN", "UPSTASH_REDIS_REST_TOKEN", "STORAGE_REST_API_TOKEN", "STORAGE_TOKEN", "STORAGE_REDIS_REST_TOKEN")
	cfg.ResendAPIKey = firstEnv("RESEND_API_KEY", "RESEND_KEY")
	cfg.SiteURL = strings.TrimRight(firstEnv("PUBLIC_SITE_URL", "SITE_URL"), "/")

	return &cfg, nil
}

// IsDevelopment reports whether the server runs in development mode. The
// default is production: an unset environment must not weaken cookie or
// secret handling.
func (c *Config) IsDevelopment() bool {
	env := c.Environment
	if env == "" {
		env = c.GoEnv
	}
	return strings.EqualFold(env, "development") || strings.EqualFold(env, "dev")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
