package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIAddr != "http://127.0.0.1:8600" {
		t.Errorf("unexpected default API addr: %s", cfg.APIAddr)
	}
	if cfg.AutosaveDelay != 1500*time.Millisecond {
		t.Errorf("unexpected default autosave delay: %v", cfg.AutosaveDelay)
	}
	if cfg.PollMaxAttempts != 30 {
		t.Errorf("unexpected default poll attempts: %d", cfg.PollMaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEWSDESK_API", "http://backend.internal:9000")
	t.Setenv("NEWSDESK_AUTOSAVE_DELAY_MS", "250")
	t.Setenv("NEWSDESK_POLL_MAX_ATTEMPTS", "5")

	cfg := Load()
	if cfg.APIAddr != "http://backend.internal:9000" {
		t.Errorf("env override ignored: %s", cfg.APIAddr)
	}
	if cfg.AutosaveDelay != 250*time.Millisecond {
		t.Errorf("autosave delay override ignored: %v", cfg.AutosaveDelay)
	}
	if cfg.PollMaxAttempts != 5 {
		t.Errorf("poll attempts override ignored: %d", cfg.PollMaxAttempts)
	}
}

func TestBadIntFallsBack(t *testing.T) {
	t.Setenv("NEWSDESK_POLL_MAX_ATTEMPTS", "many")

	cfg := Load()
	if cfg.PollMaxAttempts != 30 {
		t.Errorf("expected fallback to default, got %d", cfg.PollMaxAttempts)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := &Config{APIAddr: "", PollMaxAttempts: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for empty API addr")
	}
}
