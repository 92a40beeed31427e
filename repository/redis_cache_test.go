package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server only when LOAN_TEST_REDIS_ADDR is set.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("LOAN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LOAN_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	cache := NewRedisCache(addr)
	t.Cleanup(func() { _ = cache.Close() })
	require.NoError(t, cache.Ping(ctx))

	key := "loan-quote-test:" + time.Now().Format(time.RFC3339Nano)
	require.NoError(t, cache.Set(ctx, key, "v", time.Minute))

	got, ok := cache.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "v", got)

	require.NoError(t, cache.Delete(ctx, key))
	_, ok = cache.Get(ctx, key)
	assert.False(t, ok)
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	cache := NewRedisCache("127.0.0.1:1")
	t.Cleanup(func() { _ = cache.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, cache.Ping(ctx))

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
}
