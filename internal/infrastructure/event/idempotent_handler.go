package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/erp/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyStats counts what the idempotent wrappers did
type IdempotencyStats struct {
	Processed  atomic.Int64
	Duplicates atomic.Int64
	Failed     atomic.Int64
}

// IdempotentHandler makes sure a handler sees each event ID at most once within the TTL.
// Keys are scoped by handler name, so handlers sharing a store do not shadow each other.
type IdempotentHandler struct {
	handler shared.EventHandler
	name    string
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	logger  *zap.Logger
	stats   *IdempotencyStats
}

// NewIdempotentHandler wraps handler. stats may be shared between wrappers; nil allocates one.
func NewIdempotentHandler(
	handler shared.EventHandler,
	store shared.IdempotencyStore,
	config shared.IdempotencyConfig,
	logger *zap.Logger,
	stats *IdempotencyStats,
) *IdempotentHandler {
	if stats == nil {
		stats = &IdempotencyStats{}
	}
	return &IdempotentHandler{
		handler: handler,
		name:    fmt.Sprintf("%T", handler),
		store:   store,
		config:  config,
		logger:  logger,
		stats:   stats,
	}
}

// Named overrides the key scope, which defaults to the wrapped handler's type.
// Wrappers with the same name over one store share their processed set.
func (h *IdempotentHandler) Named(name string) *IdempotentHandler {
	h.name = name
	return h
}

// Name returns the key scope
func (h *IdempotentHandler) Name() string {
	return h.name
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle skips events already marked in the store.
// When the store is unreachable the event is handled anyway.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, event)
	}

	eventID := event.EventID().String()
	isNew, err := h.store.MarkProcessed(ctx, h.name+":"+eventID, h.config.TTL)
	switch {
	case err != nil:
		h.logger.Warn("failed to check idempotency, processing anyway",
			zap.String("handler", h.name),
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	case !isNew:
		h.stats.Duplicates.Add(1)
		h.logger.Debug("duplicate event skipped",
			zap.String("handler", h.name),
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	// The key is kept on failure; the event becomes eligible again once it expires.
	if err := h.handler.Handle(ctx, event); err != nil {
		h.stats.Failed.Add(1)
		return err
	}
	h.stats.Processed.Add(1)
	return nil
}

// Unwrap returns the wrapped handler
func (h *IdempotentHandler) Unwrap() shared.EventHandler {
	return h.handler
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
