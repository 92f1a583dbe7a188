package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STRIVE_API_URL", "https://api.example.com")
	t.Setenv("STRIVE_TIMEOUT_MS", "9000")
	t.Setenv("STRIVE_MAX_RETRIES", "3")
	t.Setenv("STRIVE_LOG_CALLS", "true")

	cfg := LoadConfig()

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.True(t, cfg.LogCalls)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("STRIVE_TIMEOUT_MS", "not-a-number")
	t.Setenv("STRIVE_MAX_RETRIES", "-2")

	cfg := LoadConfig()

	assert.Equal(t, DefaultConfig().TimeoutMs, cfg.TimeoutMs)
	assert.Equal(t, DefaultConfig().MaxRetries, cfg.MaxRetries)
}
