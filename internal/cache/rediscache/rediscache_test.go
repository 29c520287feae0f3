package rediscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, Options) {
	mr := miniredis.RunT(t)
	return mr, Options{Addr: mr.Addr()}
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	mr, opts := newTestClient(t)
	c := New(NewClient(opts), "wd:")
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "feeds:activity:2026-10-18", []byte("[]"), time.Hour))
	require.True(t, mr.Exists("wd:feeds:activity:2026-10-18"))

	b, ok, err := c.Get(ctx, "feeds:activity:2026-10-18")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("[]"), b)

	require.NoError(t, c.Delete(ctx, "feeds:activity:2026-10-18"))
	_, ok, err = c.Get(ctx, "feeds:activity:2026-10-18")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.Delete(ctx))
}

func TestRedisCache_TTLExpires(t *testing.T) {
	mr, opts := newTestClient(t)
	c := New(NewClient(opts), "")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_GetError(t *testing.T) {
	c := New(NewClient(Options{Addr: "127.0.0.1:1"}), "")

	_, _, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis get")
}

func TestRateLimiter_Allow(t *testing.T) {
	mr, opts := newTestClient(t)
	rl := NewRateLimiter(NewClient(opts), "rl:")
	ctx := context.Background()

	d, err := rl.Allow(ctx, "submit:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, int64(1), d.Count)
	require.Equal(t, time.Minute, mr.TTL("rl:submit:1.2.3.4"))

	d, _ = rl.Allow(ctx, "submit:1.2.3.4", 2, time.Minute)
	require.True(t, d.Allowed)
	require.Equal(t, int64(2), d.Count)

	d, err = rl.Allow(ctx, "submit:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, int64(3), d.Count)
	require.Equal(t, time.Minute, d.RetryAfter)

	d, _ = rl.Allow(ctx, "submit:5.6.7.8", 2, time.Minute)
	require.True(t, d.Allowed)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	mr, opts := newTestClient(t)
	rl := NewRateLimiter(NewClient(opts), "")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := rl.Allow(ctx, "k", 1, time.Minute)
		require.NoError(t, err)
	}
	mr.FastForward(61 * time.Second)

	d, err := rl.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, int64(1), d.Count)
}
