package cache

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	resp := &CachedResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   []byte(`{"entries":[]}`),
	}
	require.NoError(t, store.Set(ctx, "cache:public:/api/v1/entries", resp, time.Minute))

	got, err := store.Get(ctx, "cache:public:/api/v1/entries")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, resp.Status, got.Status)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, resp.Body, got.Body)
}

func TestRedisStoreMissingKey(t *testing.T) {
	store, _ := newRedisStore(t)

	got, err := store.Get(context.Background(), "cache:public:/nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	resp := &CachedResponse{Status: http.StatusOK, Body: []byte("x")}
	require.NoError(t, store.Set(ctx, "cache:public:/a", resp, 30*time.Second))

	mr.FastForward(time.Minute)

	got, err := store.Get(ctx, "cache:public:/a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreDeletePattern(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	resp := &CachedResponse{Status: http.StatusOK, Body: []byte("x")}
	require.NoError(t, store.Set(ctx, "cache:public:/api/v1/entries", resp, time.Minute))
	require.NoError(t, store.Set(ctx, "cache:public:search:abc123", resp, time.Minute))
	require.NoError(t, store.Set(ctx, "cache:user:u-1:search:def456", resp, time.Minute))
	require.NoError(t, store.Set(ctx, "cache:user:u-1:/api/v1/orders", resp, time.Minute))

	deleted, err := store.DeletePattern(ctx, AllSearchPattern())
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	assert.False(t, mr.Exists("cache:public:search:abc123"))
	assert.False(t, mr.Exists("cache:user:u-1:search:def456"))
	assert.True(t, mr.Exists("cache:public:/api/v1/entries"))
	assert.True(t, mr.Exists("cache:user:u-1:/api/v1/orders"))
}

func TestRedisStoreDeletePatternLargeKeyspace(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	resp := &CachedResponse{Status: http.StatusOK, Body: []byte("x")}
	for i := 0; i < 350; i++ {
		key := fmt.Sprintf("cache:public:search:%04d", i)
		require.NoError(t, store.Set(ctx, key, resp, time.Minute))
	}

	deleted, err := store.DeletePattern(ctx, SearchPattern("public"))
	require.NoError(t, err)
	assert.Equal(t, 350, deleted)
}
