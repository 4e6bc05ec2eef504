package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DefaultAPIPassword, cfg.APIPassword)
	assert.True(t, cfg.InsecurePassword())
	assert.Equal(t, "dtek2025", cfg.APIPassword)
	assert.Equal(t, "https://www.dtek-dnem.com.ua/ua/shutdowns", cfg.SourceURL)
	assert.Equal(t, "GPV3.1", cfg.DefaultQueue)
	assert.Equal(t, 300*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.PollTimeout)
	assert.Equal(t, 90*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.ChromeHeadless)
	assert.False(t, cfg.ServeStale)
	assert.Zero(t, cfg.FetchBreakerThreshold)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_PASSWORD", "s3cret")
	t.Setenv("PORT", "8081")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("CHROME_WS_URL", "ws://chrome:9222/devtools/browser/abc")
	t.Setenv("SERVE_STALE", "true")
	t.Setenv("FETCH_BREAKER_THRESHOLD", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.APIPassword)
	assert.False(t, cfg.InsecurePassword())
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, "ws://chrome:9222/devtools/browser/abc", cfg.ChromeWSURL)
	assert.True(t, cfg.ServeStale)
	assert.Equal(t, uint32(3), cfg.FetchBreakerThreshold)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"non-numeric port": {"PORT", "http"},
		"bad duration":     {"POLL_TIMEOUT", "soon"},
		"zero ttl":         {"CACHE_TTL", "0s"},
		"bad source url":   {"SOURCE_URL", "not a url"},
		"bad log level":    {"LOG_LEVEL", "loud"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
