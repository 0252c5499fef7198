package events

import (
	"fmt"
	"os"
	"strconv"
)

// Config controls the redis-backed event bus.
type Config struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

// Env maps config fields to environment variable names for override
// injection.
type Env struct {
	Addr     string
	Password string
	DB       string
	Channel  string
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
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB > 0 {
		c.DB = overlay.DB
	}
	if overlay.Channel != "" {
		c.Channel = overlay.Channel
	}
}

func (c *Config) loadDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Channel == "" {
		c.Channel = "campusdesk.events"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Addr != "" {
		if v := os.Getenv(env.Addr); v != "" {
			c.Addr = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.DB != "" {
		if v := os.Getenv(env.DB); v != "" {
			if db, err := strconv.Atoi(v); err == nil {
				c.DB = db
			}
		}
	}
	if env.Channel != "" {
		if v := os.Getenv(env.Channel); v != "" {
			c.Channel = v
		}
	}
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("events addr is required")
	}
	if c.Channel == "" {
		return fmt.Errorf("events channel is required")
	}
	return nil
}
