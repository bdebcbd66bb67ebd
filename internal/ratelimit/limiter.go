// Package ratelimit throttles mutations per principal with fixed windows
// kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter decides whether another request under key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type counter interface {
	incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type redisCounter struct {
	client *redis.Client
}

// incr bumps the window counter and sets its expiry in one round trip.
func (c redisCounter) incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RedisLimiter allows up to limit requests per key in each window. When
// Redis cannot be reached it lets the request through and returns the
// error for logging.
type RedisLimiter struct {
	counter counter
	limit   int64
	window  time.Duration
	prefix  string
	now     func() time.Time
}

// NewRedisLimiter returns nil when client is nil or limit is not positive,
// meaning requests are not limited.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if client == nil || limit <= 0 || window <= 0 {
		return nil
	}
	return newLimiter(redisCounter{client: client}, limit, window)
}

func newLimiter(c counter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		counter: c,
		limit:   int64(limit),
		window:  window,
		prefix:  "ratelimit",
		now:     time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().UnixNano() / int64(l.window)
	n, err := l.counter.incr(ctx, fmt.Sprintf("%s:%s:%d", l.prefix, key, slot), l.window)
	if err != nil {
		return true, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return n <= l.limit, nil
}
