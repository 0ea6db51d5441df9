package cache

import (
	"context"
	"time"
)

// Store represents a shared counter/value store used for rate limiting.
type Store interface {
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}
