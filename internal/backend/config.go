package backend

import (
	"os"
	"strconv"
)

// Config holds all configuration for the wizard-protocol client.
type Config struct {
	BaseURL    string
	TimeoutMs  int
	MaxRetries int
	LogCalls   bool
}

// DefaultConfig returns a Config with sensible defaults. The generation
// backend is slow (it runs an LLM pipeline per turn), so the timeout is
// generous.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:8000",
		TimeoutMs:  60000,
		MaxRetries: 1,
		LogCalls:   false,
	}
}

// LoadConfig reads client configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("STRIVE_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("STRIVE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("STRIVE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("STRIVE_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	return cfg
}
