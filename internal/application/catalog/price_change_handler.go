package catalog

import (
	"context"
	"fmt"

	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/erp/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// PriceChangeAuditHandler writes an audit line whenever a product is repriced
type PriceChangeAuditHandler struct {
	logger *zap.Logger
}

// NewPriceChangeAuditHandler creates the handler
func NewPriceChangeAuditHandler(logger *zap.Logger) *PriceChangeAuditHandler {
	return &PriceChangeAuditHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *PriceChangeAuditHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductPriceChanged}
}

// Handle logs the old and new price
func (h *PriceChangeAuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*catalog.ProductPriceChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductPriceChanged, event.EventType())
	}

	h.logger.Info("Product repriced",
		zap.String("product_id", changed.ProductID.String()),
		zap.String("old_price", changed.OldPrice.String()),
		zap.String("new_price", changed.NewPrice.String()),
	)
	return nil
}
