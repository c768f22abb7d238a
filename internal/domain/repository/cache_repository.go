package repository

import (
	"context"
	"time"
)

// CacheRepository is the process-external cache (Redis). Misses return
// (nil, nil), never an error.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
