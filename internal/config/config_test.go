package config

import (
	"testing"
	"time"
)

func TestMergePrecedence(t *testing.T) {
	base := &Config{
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
	base.Classifier.BaseURL = "http://localhost:8090"
	base.Attachments.MaxUploadSize = "10MB"

	overlay := &Config{ShutdownTimeout: "2m"}
	overlay.Classifier.BaseURL = "https://classifier.internal"

	base.Merge(overlay)

	if base.ShutdownTimeout != "2m" {
		t.Errorf("shutdown timeout: got %q", base.ShutdownTimeout)
	}
	if base.Version != "0.1.0" {
		t.Errorf("zero overlay should not clobber version: %q", base.Version)
	}
	if base.Classifier.BaseURL != "https://classifier.internal" {
		t.Errorf("classifier base url: got %q", base.Classifier.BaseURL)
	}
	if base.Attachments.MaxUploadSize != "10MB" {
		t.Errorf("attachments size: got %q", base.Attachments.MaxUploadSize)
	}
}

func TestEnvDefault(t *testing.T) {
	t.Setenv(EnvCampusdeskEnv, "")

	cfg := &Config{}
	if got := cfg.Env(); got != "local" {
		t.Errorf("env: got %q, expected local", got)
	}

	t.Setenv(EnvCampusdeskEnv, "production")
	if got := cfg.Env(); got != "production" {
		t.Errorf("env: got %q, expected production", got)
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	cfg := &Config{ShutdownTimeout: "45s"}
	if got := cfg.ShutdownTimeoutDuration(); got != 45*time.Second {
		t.Errorf("duration: got %v", got)
	}
}

func TestValidateRejectsBadTimeout(t *testing.T) {
	cfg := &Config{ShutdownTimeout: "soon"}
	if err := cfg.validate(); err == nil {
		t.Error("expected error for unparseable shutdown_timeout")
	}
}
