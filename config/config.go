// Package config loads the demo server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/routekit/pkg/logger"
)

// Config is the server configuration.
type Config struct {
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	Env             string        `env:"APP_ENV" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// RedisURL switches sessions and the loader cache to redis. Empty keeps
	// both in memory.
	RedisURL string `env:"REDIS_URL"`

	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"720h"`
	SessionSecure bool          `env:"SESSION_SECURE" envDefault:"false"`

	// LoaderCacheTTL enables the loader cache when positive.
	LoaderCacheTTL time.Duration `env:"LOADER_CACHE_TTL" envDefault:"0s"`
	LoaderTimeout  time.Duration `env:"LOADER_TIMEOUT" envDefault:"0s"`

	Sentry logger.SentryConfig
}

// Load parses the environment.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: vars})
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool { return c.Env == "production" }
