// Package config loads newsdesk configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
)

// Config holds everything the client surfaces need to talk to the backend
// and pace their background work.
type Config struct {
	APIAddr         string
	APIToken        string
	AutosaveDelay   time.Duration
	PollInterval    time.Duration
	PollMaxAttempts int
	PrefsPath       string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIAddr:         getEnv("NEWSDESK_API", "http://127.0.0.1:8600"),
		APIToken:        getEnv("NEWSDESK_TOKEN", ""),
		AutosaveDelay:   getDurationMs("NEWSDESK_AUTOSAVE_DELAY_MS", 1500),
		PollInterval:    getDurationMs("NEWSDESK_POLL_INTERVAL_MS", 2000),
		PollMaxAttempts: getInt("NEWSDESK_POLL_MAX_ATTEMPTS", 30),
		PrefsPath:       getEnv("NEWSDESK_PREFS_PATH", defaultPrefsPath()),
	}
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIAddr, validation.Required, is.URL),
		validation.Field(&c.PollMaxAttempts, validation.Min(1)),
	)
}

func defaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsdesk.db"
	}
	return filepath.Join(home, ".newsdesk", "newsdesk.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ignoring %s=%q: %v\n", key, raw, err)
		return defaultValue
	}
	return n
}

func getDurationMs(key string, defaultMs int) time.Duration {
	return time.Duration(getInt(key, defaultMs)) * time.Millisecond
}
