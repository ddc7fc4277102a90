package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()

		client, err := Open(ctx, "")
		require.ErrorIs(t, err, ErrEmptyURL)
		require.Nil(t, client)
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		t.Parallel()

		for _, url := range []string{"http://localhost:6379", "localhost:6379", "postgres://localhost"} {
			client, err := Open(ctx, url)
			require.ErrorIs(t, err, ErrInvalidURL, url)
			require.Nil(t, client)
		}
	})

	t.Run("gives up when context is done", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(ctx)
		cancel()

		client, err := Open(ctx, "redis://127.0.0.1:1/0",
			WithRetry(5, time.Second),
			WithTimeouts(50*time.Millisecond, 50*time.Millisecond),
		)
		require.ErrorIs(t, err, ErrConnectionFailed)
		require.Nil(t, client)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Healthcheck(nil)(context.Background()), ErrUnhealthy)
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := Shutdown(closerFunc(func() error { return boom }))(context.Background())
	require.ErrorIs(t, err, boom)
}
