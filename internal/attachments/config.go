package attachments

import (
	"fmt"
	"os"
	"strconv"

	"github.com/campusdesk/campusdesk/pkg/formatting"
)

// Config controls attachment upload limits.
type Config struct {
	MaxUploadSize string `toml:"max_upload_size"`
	MaxBatchFiles int    `toml:"max_batch_files"`

	maxUploadBytes int64
}

// Env maps config fields to environment variable names for override
// injection.
type Env struct {
	MaxUploadSize string
	MaxBatchFiles string
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
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.MaxBatchFiles > 0 {
		c.MaxBatchFiles = overlay.MaxBatchFiles
	}
}

// MaxUploadBytes returns the parsed per-file size cap.
func (c *Config) MaxUploadBytes() int64 {
	return c.maxUploadBytes
}

func (c *Config) loadDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
	if c.MaxBatchFiles <= 0 {
		c.MaxBatchFiles = 10
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxUploadSize != "" {
		if v := os.Getenv(env.MaxUploadSize); v != "" {
			c.MaxUploadSize = v
		}
	}
	if env.MaxBatchFiles != "" {
		if v := os.Getenv(env.MaxBatchFiles); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxBatchFiles = n
			}
		}
	}
}

func (c *Config) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("attachments max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("attachments max_upload_size must be positive")
	}
	c.maxUploadBytes = size
	return nil
}
