package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures Open.
type Option func(*config)

type config struct {
	poolSize    int
	attempts    int
	backoff     time.Duration
	dialTimeout time.Duration
	ioTimeout   time.Duration
	logger      *slog.Logger
}

// WithPoolSize sets the connection pool size. Default: 10.
func WithPoolSize(n int) Option {
	return func(c *config) { c.poolSize = n }
}

// WithRetry sets the connect attempts and the base backoff between them.
// The wait grows linearly with each attempt. Default: 3 attempts, 2s.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *config) {
		c.attempts = attempts
		c.backoff = backoff
	}
}

// WithTimeouts sets the dial timeout and the read/write timeout.
func WithTimeouts(dial, rw time.Duration) Option {
	return func(c *config) {
		c.dialTimeout = dial
		c.ioTimeout = rw
	}
}

// WithLogger logs failed connect attempts.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Open parses a redis:// or rediss:// URL and pings the server,
// retrying until it answers or the attempts run out.
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrInvalidURL
	}

	cfg := config{
		poolSize:    10,
		attempts:    3,
		backoff:     2 * time.Second,
		dialTimeout: 5 * time.Second,
		ioTimeout:   3 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	ropts.PoolSize = cfg.poolSize
	ropts.DialTimeout = cfg.dialTimeout
	ropts.ReadTimeout = cfg.ioTimeout
	ropts.WriteTimeout = cfg.ioTimeout

	var lastErr error
	for attempt := range max(cfg.attempts, 1) {
		client := redis.NewClient(ropts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()
		if cfg.logger != nil {
			cfg.logger.WarnContext(ctx, "redis connect attempt failed",
				slog.Int("attempt", attempt+1),
				slog.String("error", lastErr.Error()))
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(attempt+1) * cfg.backoff):
		}
	}
	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Healthcheck pings client. Suitable as a readiness check.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrUnhealthy
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrUnhealthy, err)
		}
		return nil
	}
}

// Shutdown closes client. Suitable as a shutdown hook.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
