package classifier

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const tokenEnv = "CAMPUSDESK_CLASSIFIER_TOKEN"

// Config controls the classification client. The credential is read only
// from the environment, never from config files.
type Config struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Env maps config fields to environment variable names for override
// injection.
type Env struct {
	BaseURL        string
	TimeoutSeconds string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.TimeoutSeconds > 0 {
		c.TimeoutSeconds = overlay.TimeoutSeconds
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Token reads the service credential from the environment.
func (c *Config) Token() string {
	return os.Getenv(tokenEnv)
}

func (c *Config) loadDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.TimeoutSeconds != "" {
		if v := os.Getenv(env.TimeoutSeconds); v != "" {
			if seconds, err := strconv.Atoi(v); err == nil {
				c.TimeoutSeconds = seconds
			}
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("classifier base_url is required")
	}
	return nil
}
