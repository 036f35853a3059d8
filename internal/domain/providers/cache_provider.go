package providers

import (
	"context"
	"time"
)

// CacheProvider is a byte-oriented cache with per-entry TTLs. A miss is
// not an error: Get returns (nil, nil) when the key is absent.
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
