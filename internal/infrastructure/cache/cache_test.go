package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIdempotencyStore(0)
	defer s.Close()

	isNew, err := s.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = s.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, isNew)

	processed, err := s.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = s.IsProcessed(ctx, "evt-2")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestMemoryIdempotencyStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIdempotencyStore(0)
	defer s.Close()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	_, err := s.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	processed, _ := s.IsProcessed(ctx, "evt-1")
	assert.False(t, processed)

	s.sweep()
	assert.Zero(t, s.Len())

	isNew, err := s.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)
}

func TestMemoryIdempotencyStore_ConcurrentMarkOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIdempotencyStore(time.Millisecond)
	defer s.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.MarkProcessed(ctx, "same", time.Hour); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	s := NewMemoryIdempotencyStore(time.Millisecond)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestNewIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory by default", func(t *testing.T) {
		store := NewIdempotencyStore(ctx, config.EventConfig{Store: "memory"}, config.RedisConfig{}, zap.NewNop())
		defer store.Close()
		assert.IsType(t, &MemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		store := NewIdempotencyStore(ctx,
			config.EventConfig{Store: "redis"},
			config.RedisConfig{Host: "127.0.0.1", Port: 1},
			zap.NewNop(),
		)
		defer store.Close()
		assert.IsType(t, &MemoryIdempotencyStore{}, store)
	})
}
