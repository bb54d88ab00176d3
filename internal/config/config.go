// Package config loads runtime configuration from the environment.
// Secrets are validated once at startup so a misconfigured process
// fails before it accepts traffic.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/versalles/versalles/session"
)

// Environment names select cookie policy and storage defaults.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var errMissingSecret = errors.New("SESSION_SECRET is not set")

// Config holds everything read from the environment. Listener flags
// (port, data dir) stay on the command line; credentials and endpoints
// live here.
type Config struct {
	// Env is "development" or "production". Production sets the
	// Secure attribute on session cookies.
	Env string

	// SessionSecret seeds the session sealing key. At least 32 bytes.
	SessionSecret []byte

	// MongoURI selects the MongoDB backend when set. Empty means the
	// embedded bbolt backend.
	MongoURI string

	// RedisAddr enables rate limiting when set.
	RedisAddr string

	IdentityURL       string
	IdentityAPIKey    string
	IdentityJWTSecret []byte
}

// Load reads and validates the environment. Any violation is fatal to
// the caller: a server must not start half-configured.
func Load() (*Config, error) {
	cfg := &Config{
		Env:               getenvDefault("VERSALLES_ENV", EnvDevelopment),
		SessionSecret:     []byte(os.Getenv("SESSION_SECRET")),
		MongoURI:          os.Getenv("MONGODB_URI"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		IdentityURL:       os.Getenv("IDENTITY_URL"),
		IdentityAPIKey:    os.Getenv("IDENTITY_API_KEY"),
		IdentityJWTSecret: []byte(os.Getenv("IDENTITY_JWT_SECRET")),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("VERSALLES_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if len(c.SessionSecret) == 0 {
		return errMissingSecret
	}
	if len(c.SessionSecret) < session.MinSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes, got %d", session.MinSecretLen, len(c.SessionSecret))
	}
	if c.IdentityURL == "" {
		return errors.New("IDENTITY_URL is not set")
	}
	if len(c.IdentityJWTSecret) == 0 {
		return errors.New("IDENTITY_JWT_SECRET is not set")
	}
	return nil
}

// Production reports whether cookies must carry the Secure attribute.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
