package config

import (
	"context"
	"time"

	"github.com/anonto42/socialgraph/backend/internal/logging"
	"github.com/go-redis/redis/v8"
)

// NewRedisClient returns nil when REDIS_ADDR is unset. An unreachable server
// is only logged; callers degrade gracefully.
func NewRedisClient(ctx context.Context, cfg *Config, log logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn(ctx, "redis unreachable, rate limiting fails open", "addr", cfg.RedisAddr, "error", err)
	} else {
		log.Info(ctx, "connected to redis", "addr", cfg.RedisAddr)
	}
	return client
}
