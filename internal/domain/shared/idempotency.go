package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which events a handler has already seen
type IdempotencyStore interface {
	// MarkProcessed atomically records the event ID.
	// It reports false when the ID was already recorded and has not expired.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	Close() error
}

// IdempotencyConfig controls duplicate suppression for event handlers
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// DefaultIdempotencyConfig returns duplicate suppression with a 24h window
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Enabled: true,
		TTL:     24 * time.Hour,
	}
}
