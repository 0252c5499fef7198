package config

import (
	"fmt"
	"os"
)

const (
	EnvAuthIssuer   = "CAMPUSDESK_AUTH_ISSUER"
	EnvAuthAudience = "CAMPUSDESK_AUTH_AUDIENCE"
)

// AuthConfig holds OIDC token verification parameters for the managed auth
// provider.
type AuthConfig struct {
	Issuer   string `toml:"issuer"`
	Audience string `toml:"audience"`
}

// Finalize applies environment variable overrides and validation.
func (c *AuthConfig) Finalize() error {
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthIssuer); v != "" {
		c.Issuer = v
	}
	if v := os.Getenv(EnvAuthAudience); v != "" {
		c.Audience = v
	}
}

func (c *AuthConfig) validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("issuer required")
	}
	if c.Audience == "" {
		return fmt.Errorf("audience required")
	}
	return nil
}
