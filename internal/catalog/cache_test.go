package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]int{"total": 42}, nil
	}

	var first map[string]int
	require.NoError(t, cache.FetchJSON(ctx, "k", &first, loader))
	require.Equal(t, 42, first["total"])

	var second map[string]int
	require.NoError(t, cache.FetchJSON(ctx, "k", &second, loader))
	require.Equal(t, 42, second["total"])
	require.Equal(t, 1, calls)
}

func TestCacheBumpChangesKeys(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "catalog", "products", "all")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, "catalog", "products", "all")
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestNilCachePassesThrough(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	var out map[string]int
	err := cache.FetchJSON(ctx, "k", &out, func(context.Context) (any, error) {
		return map[string]int{"total": 7}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, out["total"])
	require.NoError(t, cache.Bump(ctx))
}
