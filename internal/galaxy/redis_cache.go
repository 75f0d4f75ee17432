package galaxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps encoded clouds in Redis so every server instance shares them.
type RedisCache struct {
	client redis.Cmdable
}

func NewRedisCache(client redis.Cmdable) *RedisCache {
	logger := slog.With("component", "galaxy_cache", "operation", "init")
	logger.Debug("Initializing Redis point cloud cache")
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*PointCloud, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached cloud: %w", err)
	}

	var cloud PointCloud
	if err := cloud.UnmarshalBinary(data); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached cloud: %w", err)
	}
	return &cloud, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, cloud *PointCloud, ttl time.Duration) error {
	data, err := cloud.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode cloud for cache: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cached cloud: %w", err)
	}
	return nil
}
