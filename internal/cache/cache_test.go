package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fits-community/fits-tracker/pkg/logger"
)

func setupRedis(t *testing.T) *Redis {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisWithClient(client, logger.Nop())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedis_SetAndGet(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "daily:2026-01-19", `{"rows":1}`, time.Minute))

	val, err := c.Get(ctx, "daily:2026-01-19")
	require.NoError(t, err)
	assert.Equal(t, `{"rows":1}`, val)
}

func TestRedis_MissReturnsEmptyWithoutError(t *testing.T) {
	c := setupRedis(t)

	val, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestRedis_Del(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", "v1", time.Minute))
	require.NoError(t, c.Set(ctx, "k2", "v2", time.Minute))
	require.NoError(t, c.Del(ctx, "k1", "k2"))

	val, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, val)

	// Deleting nothing is fine.
	assert.NoError(t, c.Del(ctx))
}

func TestNoop_AlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c Cache = Noop{}

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, val)

	assert.NoError(t, c.Del(ctx, "k"))
}
