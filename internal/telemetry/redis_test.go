package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisTest(t *testing.T) (*redisStore, *miniredis.Miniredis, context.Context) {
	// Start a mock Redis server
	s, err := miniredis.Run()
	require.NoError(t, err)

	store, err := newRedisStore("redis://" + s.Addr())
	require.NoError(t, err)

	redisStore, ok := store.(*redisStore)
	require.True(t, ok, "Expected Redis store implementation")

	return redisStore, s, context.Background()
}

func TestRedisStore_GetSet(t *testing.T) {
	store, s, ctx := setupRedisTest(t)
	defer s.Close()
	defer store.Close()

	// Initially, there should be no sample
	_, hit, err := store.Get(ctx, "cpu:worker-1")
	require.NoError(t, err)
	assert.False(t, hit)

	// Store a sample
	err = store.Set(ctx, "cpu:worker-1", 0.37, time.Minute)
	require.NoError(t, err)

	value, hit, err := store.Get(ctx, "cpu:worker-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.InDelta(t, 0.37, value, 1e-9)

	// Check the TTL
	ttl := s.TTL(store.formKey("cpu:worker-1"))
	assert.True(t, ttl > 0)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, s, ctx := setupRedisTest(t)
	defer s.Close()
	defer store.Close()

	require.NoError(t, store.Set(ctx, "mem:worker-1", 0.8, time.Second))

	s.FastForward(2 * time.Second)

	_, hit, err := store.Get(ctx, "mem:worker-1")
	require.NoError(t, err)
	assert.False(t, hit, "expired sample should miss")
}

func TestRedisStore_CorruptSample(t *testing.T) {
	store, s, ctx := setupRedisTest(t)
	defer s.Close()
	defer store.Close()

	s.Set(store.formKey("cpu:worker-1"), "not-a-float")

	_, hit, err := store.Get(ctx, "cpu:worker-1")
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestMemoryStore_GetSet(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	_, hit, err := store.Get(ctx, "cpu:worker-1")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, store.Set(ctx, "cpu:worker-1", 0.5, time.Minute))

	value, hit, err := store.Get(ctx, "cpu:worker-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.InDelta(t, 0.5, value, 1e-9)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cpu:worker-1", 0.5, -time.Second))

	_, hit, err := store.Get(ctx, "cpu:worker-1")
	require.NoError(t, err)
	assert.False(t, hit, "sample with elapsed TTL should miss")
}
