package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := Load()

		assert.Equal(t, "0.0.0.0", cfg.ServerHost)
		assert.Equal(t, 8080, cfg.ServerPort)
		assert.Equal(t, "postgres", cfg.DBDriver)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 65536, cfg.MaxValueSize)
		assert.Equal(t, 0, cfg.MaxEphemeralValueSize)
		assert.Equal(t, 100*time.Millisecond, cfg.StorageRetryBackoff)
		assert.Equal(t, "aes-gcm", cfg.DekAlgorithm)
		assert.True(t, cfg.RateLimitEnabled)
		assert.Equal(t, "secretd", cfg.MetricsNamespace)
		assert.Empty(t, cfg.KMSProvider)
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("DB_DRIVER", "mysql")
		t.Setenv("MAX_VALUE_SIZE", "1024")
		t.Setenv("DEK_ALGORITHM", "chacha20-poly1305")
		t.Setenv("RATE_LIMIT_ENABLED", "false")

		cfg := Load()

		assert.Equal(t, 9090, cfg.ServerPort)
		assert.Equal(t, "mysql", cfg.DBDriver)
		assert.Equal(t, 1024, cfg.MaxValueSize)
		assert.Equal(t, "chacha20-poly1305", cfg.DekAlgorithm)
		assert.False(t, cfg.RateLimitEnabled)
	})
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		want     string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, cfg.GetGinMode())
		})
	}
}
