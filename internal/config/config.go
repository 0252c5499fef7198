// Package config loads and finalizes service configuration from a TOML base
// file, an optional environment overlay, and CAMPUSDESK_* variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/campusdesk/campusdesk/internal/attachments"
	"github.com/campusdesk/campusdesk/internal/classifier"
	"github.com/campusdesk/campusdesk/internal/events"
	"github.com/campusdesk/campusdesk/pkg/database"
	"github.com/campusdesk/campusdesk/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCampusdeskEnv             = "CAMPUSDESK_ENV"
	EnvCampusdeskShutdownTimeout = "CAMPUSDESK_SHUTDOWN_TIMEOUT"
	EnvCampusdeskVersion         = "CAMPUSDESK_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CAMPUSDESK_DB_HOST",
	Port:            "CAMPUSDESK_DB_PORT",
	Name:            "CAMPUSDESK_DB_NAME",
	User:            "CAMPUSDESK_DB_USER",
	Password:        "CAMPUSDESK_DB_PASSWORD",
	SSLMode:         "CAMPUSDESK_DB_SSL_MODE",
	MaxOpenConns:    "CAMPUSDESK_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CAMPUSDESK_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CAMPUSDESK_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CAMPUSDESK_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "CAMPUSDESK_STORAGE_CONTAINER_NAME",
	ConnectionString: "CAMPUSDESK_STORAGE_CONNECTION_STRING",
}

var eventsEnv = &events.Env{
	Addr:     "CAMPUSDESK_REDIS_ADDR",
	Password: "CAMPUSDESK_REDIS_PASSWORD",
	DB:       "CAMPUSDESK_REDIS_DB",
	Channel:  "CAMPUSDESK_EVENTS_CHANNEL",
}

var classifierEnv = &classifier.Env{
	BaseURL:        "CAMPUSDESK_CLASSIFIER_BASE_URL",
	TimeoutSeconds: "CAMPUSDESK_CLASSIFIER_TIMEOUT_SECONDS",
}

var attachmentsEnv = &attachments.Env{
	MaxUploadSize: "CAMPUSDESK_ATTACHMENTS_MAX_UPLOAD_SIZE",
	MaxBatchFiles: "CAMPUSDESK_ATTACHMENTS_MAX_BATCH_FILES",
}

// Config is the root configuration for the campusdesk service.
type Config struct {
	Server          ServerConfig       `toml:"server"`
	Database        database.Config    `toml:"database"`
	Storage         storage.Config     `toml:"storage"`
	Events          events.Config      `toml:"events"`
	Classifier      classifier.Config  `toml:"classifier"`
	Attachments     attachments.Config `toml:"attachments"`
	Auth            AuthConfig         `toml:"auth"`
	API             APIConfig          `toml:"api"`
	ShutdownTimeout string             `toml:"shutdown_timeout"`
	Version         string             `toml:"version"`
}

// Env returns the CAMPUSDESK_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCampusdeskEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Events.Merge(&overlay.Events)
	c.Classifier.Merge(&overlay.Classifier)
	c.Attachments.Merge(&overlay.Attachments)
	c.Auth.Merge(&overlay.Auth)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Events.Finalize(eventsEnv); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Attachments.Finalize(attachmentsEnv); err != nil {
		return fmt.Errorf("attachments: %w", err)
	}
	if err := c.Auth.Finalize(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCampusdeskShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCampusdeskVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCampusdeskEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
