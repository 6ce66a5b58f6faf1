package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	marked, err := store.MarkProcessed(ctx, "req-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = store.MarkProcessed(ctx, "req-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, marked)

	processed, err := store.IsProcessed(ctx, "req-1")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "req-2")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	marked, err := store.MarkProcessed(ctx, "req-1", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, marked)

	time.Sleep(20 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "req-1")
	require.NoError(t, err)
	assert.False(t, processed)

	// An expired key can be marked again
	marked, err = store.MarkProcessed(ctx, "req-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, marked)
}

func TestInMemoryIdempotencyStore_ConcurrentMark(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			marked, err := store.MarkProcessed(ctx, "shared-key", time.Minute)
			require.NoError(t, err)
			if marked {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.MarkProcessed(ctx, fmt.Sprintf("req-%d", i), time.Minute)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, store.Size())

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
