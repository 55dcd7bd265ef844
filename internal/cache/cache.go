// Package cache is a passive TTL store: get, set with expiry, remove.
// Expiry is the cache's own business; callers invalidate on writes but
// never depend on invalidation having happened.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache miss")

type Cache interface {
	// Get unmarshals the cached value into dest; ErrMiss when absent or expired.
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}
