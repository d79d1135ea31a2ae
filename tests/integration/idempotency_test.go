package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/cache"
	"github.com/erp/storefront/internal/infrastructure/event"
	"github.com/erp/storefront/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisIdempotencyStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	store := cache.NewRedisIdempotencyStore(NewRedisClient(t), "test:processed:")

	t.Run("first mark wins", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.MarkProcessed(ctx, "evt-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		processed, err := store.IsProcessed(ctx, "evt-1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("marks expire", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "evt-2", time.Second)
		require.NoError(t, err)
		require.True(t, ok)

		testutil.RequireEventually(t, func() bool {
			processed, err := store.IsProcessed(ctx, "evt-2")
			return err == nil && !processed
		}, 5*time.Second, 100*time.Millisecond)
	})

	t.Run("concurrent marks have one winner", func(t *testing.T) {
		var (
			wg   sync.WaitGroup
			wins atomic.Int32
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, err := store.MarkProcessed(ctx, "evt-3", time.Minute); err == nil && ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}

// Two instances sharing one Redis deliver a redelivered event to only one handler.
func TestIdempotentHandler_SharedRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	client := NewRedisClient(t)
	cfg := shared.IdempotencyConfig{Enabled: true, TTL: time.Minute}

	first := testutil.NewMockEventHandler("OrderCreated")
	second := testutil.NewMockEventHandler("OrderCreated")
	instanceA := event.NewIdempotentHandler(first, cache.NewRedisIdempotencyStore(client, ""), cfg, zap.NewNop(), nil)
	instanceB := event.NewIdempotentHandler(second, cache.NewRedisIdempotencyStore(client, ""), cfg, zap.NewNop(), nil)

	evt := testutil.NewTestEvent("OrderCreated")
	require.NoError(t, instanceA.Handle(ctx, evt))
	require.NoError(t, instanceB.Handle(ctx, evt))

	assert.Equal(t, 1, first.HandledCount()+second.HandledCount())
}
