// Package cache provides the idempotency stores used by notification handlers.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const memorySweepInterval = 5 * time.Minute

// NewIdempotencyStore builds the store selected by event.store.
// A Redis store that cannot be reached falls back to memory with a warning.
func NewIdempotencyStore(ctx context.Context, eventCfg config.EventConfig, redisCfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if eventCfg.Store != "redis" {
		return NewMemoryIdempotencyStore(memorySweepInterval)
	}

	store, err := dialRedis(ctx, redisCfg)
	if err != nil {
		logger.Warn("redis idempotency store unavailable, using memory",
			zap.String("addr", redisCfg.Addr()),
			zap.Error(err),
		)
		return NewMemoryIdempotencyStore(memorySweepInterval)
	}
	logger.Info("using redis idempotency store", zap.String("addr", redisCfg.Addr()))
	return store
}

func dialRedis(ctx context.Context, cfg config.RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisIdempotencyStore(client, ""), nil
}
