package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/config"
)

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.LoadFrom(map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Address)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, 720*time.Hour, cfg.SessionMaxAge)
		assert.Zero(t, cfg.LoaderCacheTTL)
		assert.Empty(t, cfg.RedisURL)
		assert.Equal(t, "development", cfg.Sentry.Environment)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.LoadFrom(map[string]string{
			"ADDRESS":          ":9000",
			"APP_ENV":          "production",
			"REDIS_URL":        "redis://localhost:6379/0",
			"LOADER_CACHE_TTL": "1m",
			"SESSION_SECURE":   "true",
			"SENTRY_DSN":       "https://key@sentry.example.com/1",
		})
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Address)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, time.Minute, cfg.LoaderCacheTTL)
		assert.True(t, cfg.SessionSecure)
		assert.Equal(t, "https://key@sentry.example.com/1", cfg.Sentry.DSN)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Parallel()

		_, err := config.LoadFrom(map[string]string{"LOADER_TIMEOUT": "soon"})
		require.Error(t, err)
	})
}
