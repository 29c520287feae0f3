package rediscache

import (
	"context"
	"time"

	"github.com/BearBump/WriteDesk/internal/cache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter: INCR, and EXPIRE on the first hit.
type RateLimiter struct {
	c      *redis.Client
	prefix string
}

func NewRateLimiter(c *redis.Client, prefix string) *RateLimiter {
	return &RateLimiter{c: c, prefix: prefix}
}

func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (cache.Decision, error) {
	key = rl.prefix + key

	n, err := rl.c.Incr(ctx, key).Result()
	if err != nil {
		return cache.Decision{}, errors.Wrap(err, "redis ratelimit incr")
	}
	if n == 1 {
		if err := rl.c.Expire(ctx, key, window).Err(); err != nil {
			return cache.Decision{}, errors.Wrap(err, "redis ratelimit expire")
		}
	}

	d := cache.Decision{Allowed: n <= limit, Count: n}
	if d.Allowed {
		return d, nil
	}

	ttl, err := rl.c.TTL(ctx, key).Result()
	if err != nil {
		return cache.Decision{}, errors.Wrap(err, "redis ratelimit ttl")
	}
	if ttl < 0 {
		// Ключ остался без TTL (упали между INCR и EXPIRE): чиним.
		_ = rl.c.Expire(ctx, key, window).Err()
		ttl = window
	}
	d.RetryAfter = ttl
	return d, nil
}
