package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestIncrWithTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := c.IncrWithTTL(ctx, "rl:login:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, time.Minute, mr.TTL("rl:login:1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	got, err := c.IncrWithTTL(ctx, "rl:login:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestWindowNotExtendedByLaterHits(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.IncrWithTTL(ctx, "k", time.Minute)
	require.NoError(t, err)
	mr.FastForward(30 * time.Second)
	_, err = c.IncrWithTTL(ctx, "k", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, mr.TTL("k"))
}

func TestNewRedisClientErrors(t *testing.T) {
	_, err := NewRedisClient("")
	assert.Error(t, err)

	_, err = NewRedisClient("://bad")
	assert.Error(t, err)
}
