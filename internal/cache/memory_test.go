package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCountsWithinWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, ttl, err := store.IncrementWithTTL(ctx, "login:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
		assert.Greater(t, ttl, time.Duration(0))
	}
}

func TestMemoryStoreResetsAfterWindow(t *testing.T) {
	store := NewMemoryStore()
	current := time.Now()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	count, _, err := store.IncrementWithTTL(ctx, "login:key", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	current = current.Add(2 * time.Minute)
	count, _, err = store.IncrementWithTTL(ctx, "login:key", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStoreEvictsExpiredKeys(t *testing.T) {
	store := NewMemoryStore()
	current := time.Now()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_, _, err := store.IncrementWithTTL(ctx, fmt.Sprintf("client-%d", i), time.Minute)
		require.NoError(t, err)
	}

	current = current.Add(24 * time.Hour)
	_, _, err := store.IncrementWithTTL(ctx, "fresh", time.Minute)
	require.NoError(t, err)

	store.mu.Lock()
	remaining := len(store.entries)
	store.mu.Unlock()
	assert.Equal(t, 1, remaining)
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, _, err := store.IncrementWithTTL(ctx, "a", time.Minute)
	require.NoError(t, err)
	count, _, err := store.IncrementWithTTL(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
