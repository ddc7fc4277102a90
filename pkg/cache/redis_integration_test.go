//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/pkg/cache"
	"github.com/dmitrymomot/routekit/pkg/redis"
	"github.com/dmitrymomot/routekit/pkg/search"
)

func TestRedis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	ctx := context.Background()

	client, err := redis.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := cache.NewRedis[search.Params](client, nil, cache.WithPrefix("routekit-test"))
	t.Cleanup(func() { _ = c.Clear(ctx) })

	_, err = c.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	want := search.Params{"foo": "bar", "filters": map[string]any{"nested": "x"}}
	require.NoError(t, c.Set(ctx, "k", want, time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "bar", got["foo"])
	nested, ok := got.Object("filters")
	require.True(t, ok)
	assert.Equal(t, "x", nested["nested"])

	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestRedisLoaderDataKeepsParamsType(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	ctx := context.Background()

	client, err := redis.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := cache.NewRedis[any](client, search.JSONCodec{}, cache.WithPrefix("routekit-test-any"))
	t.Cleanup(func() { _ = c.Clear(ctx) })

	in := search.Params{"foo": "bar", "filters": search.Params{"nested": "x"}}
	require.NoError(t, c.Set(ctx, "k", in, time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
