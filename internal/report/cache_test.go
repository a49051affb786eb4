package report

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestFetchJSONCachesLoaderResult(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return []PartyDue{{PartyID: "C1", Name: "Asha", Due: 600}}, nil
	}

	var first, second []PartyDue
	require.NoError(t, cache.FetchJSON(ctx, "report:dues:customers", &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, "report:dues:customers", &second, loader))

	require.Equal(t, 1, calls, "second fetch served from redis")
	require.Equal(t, first, second)
	require.InDelta(t, 600, second[0].Due, 1e-9)
}

func TestBumpInvalidates(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return []PartyDue{{PartyID: "C1", Due: float64(calls * 100)}}, nil
	}

	var dues []PartyDue
	require.NoError(t, cache.FetchJSON(ctx, "report:dues:customers", &dues, loader))
	require.NoError(t, cache.Bump(ctx))
	require.NoError(t, cache.FetchJSON(ctx, "report:dues:customers", &dues, loader))

	require.Equal(t, 2, calls, "bump forces a reload")
	require.InDelta(t, 200, dues[0].Due, 1e-9)
}

func TestNilCacheFallsBackToLoader(t *testing.T) {
	var cache *Cache
	var dues []PartyDue
	err := cache.FetchJSON(context.Background(), "k", &dues, func(context.Context) (any, error) {
		return []PartyDue{{PartyID: "C1", Due: 50}}, nil
	})
	require.NoError(t, err)
	require.Len(t, dues, 1)
}
