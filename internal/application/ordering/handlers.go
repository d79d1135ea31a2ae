package ordering

import (
	"context"
	"fmt"

	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderCreatedAuditHandler writes an audit line for each placed order
type OrderCreatedAuditHandler struct {
	logger *zap.Logger
}

// NewOrderCreatedAuditHandler creates the handler
func NewOrderCreatedAuditHandler(logger *zap.Logger) *OrderCreatedAuditHandler {
	return &OrderCreatedAuditHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderCreatedAuditHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderCreated}
}

// Handle logs the order id, customer and amount
func (h *OrderCreatedAuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	created, ok := event.(*ordering.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ordering.EventTypeOrderCreated, event.EventType())
	}

	h.logger.Info(fmt.Sprintf("Order %s created", created.OrderID),
		zap.String("customer_id", created.CustomerID.String()),
		zap.Int("items", len(created.Items)),
		zap.String("total_amount", created.TotalAmount.String()),
	)
	return nil
}

// OrderRecorder receives order business metrics
type OrderRecorder interface {
	RecordOrderPlaced(ctx context.Context, total decimal.Decimal, items int)
	RecordPaymentStatus(ctx context.Context, status string)
}

// OrderMetricsHandler feeds order events into business metrics
type OrderMetricsHandler struct {
	recorder OrderRecorder
}

// NewOrderMetricsHandler creates the handler
func NewOrderMetricsHandler(recorder OrderRecorder) *OrderMetricsHandler {
	return &OrderMetricsHandler{recorder: recorder}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderMetricsHandler) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderCreated,
		ordering.EventTypeOrderPaymentStatusChanged,
	}
}

// Handle records the event
func (h *OrderMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ordering.OrderCreatedEvent:
		h.recorder.RecordOrderPlaced(ctx, e.TotalAmount, len(e.Items))
	case *ordering.PaymentStatusChangedEvent:
		h.recorder.RecordPaymentStatus(ctx, e.NewStatus.String())
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}
