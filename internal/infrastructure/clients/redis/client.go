// Package redis wraps the go-redis client with config-driven construction
// and a startup connectivity check.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/emernav/backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Client owns a single Redis connection pool.
type Client struct {
	client *redis.Client
}

// NewClient connects to Redis and verifies the connection before
// returning. A Redis that cannot be reached at startup is reported
// immediately rather than surfacing later as per-request cache errors.
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr(), err)
	}

	return &Client{client: client}, nil
}

// Client exposes the underlying go-redis client.
func (c *Client) Client() *redis.Client {
	return c.client
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
