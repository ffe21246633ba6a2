package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tapgame-backend/internal/common/config"
	"tapgame-backend/internal/common/logger"
)

// ErrDisabled is returned by Open when no Redis address is configured.
var ErrDisabled = errors.New("redis is not configured")

// Client embeds the go-redis client so it can be passed wherever redis.Cmdable is accepted.
type Client struct {
	*redis.Client
}

// Open connects to the Redis server configured in cfg and pings it.
func Open(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, ErrDisabled
	}

	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
	}

	logger.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("Redis client initialized")
	return &Client{Client: c}, nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
