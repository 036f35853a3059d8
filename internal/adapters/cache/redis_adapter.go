// Package cache adapts the Redis client to the domain CacheProvider
// interface.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/emernav/backend/internal/domain/providers"
	redisclient "github.com/emernav/backend/internal/infrastructure/clients/redis"
	"github.com/redis/go-redis/v9"
)

type redisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter wraps a Redis client as a CacheProvider.
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &redisAdapter{client: client}
}

func (a *redisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := a.client.Client().Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	return data, nil
}

func (a *redisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := a.client.Client().Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

func (a *redisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}
