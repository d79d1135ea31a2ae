package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = &MetricsError{Op: "NewOrderMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics setup error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// OrderMetrics holds the storefront's order instruments.
type OrderMetrics struct {
	logger *zap.Logger

	placedTotal   *Counter
	amountTotal   *Histogram
	itemsPerOrder *Histogram
	paymentTotal  *Counter
}

// NewOrderMetrics registers the order instruments on meter.
func NewOrderMetrics(meter metric.Meter, logger *zap.Logger) (*OrderMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &OrderMetrics{logger: logger}

	var err error
	m.placedTotal, err = NewCounter(meter,
		"store_orders_placed_total",
		"Total number of orders placed",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	m.amountTotal, err = NewHistogram(meter, HistogramOpts{
		Name:        "store_order_amount",
		Description: "Order total price",
		Unit:        "{currency}",
		Boundaries:  OrderAmountBuckets,
	})
	if err != nil {
		return nil, err
	}

	m.itemsPerOrder, err = NewHistogram(meter, HistogramOpts{
		Name:        "store_order_items",
		Description: "Number of lines per order",
		Unit:        "{items}",
		Boundaries:  OrderSizeBuckets,
	})
	if err != nil {
		return nil, err
	}

	m.paymentTotal, err = NewCounter(meter,
		"store_order_payment_status_changes_total",
		"Total number of payment status changes",
		"{changes}",
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordOrderPlaced counts an order and records its total and size.
func (m *OrderMetrics) RecordOrderPlaced(ctx context.Context, total decimal.Decimal, items int) {
	m.placedTotal.Inc(ctx)
	m.amountTotal.Record(ctx, total.InexactFloat64())
	m.itemsPerOrder.Record(ctx, float64(items))

	m.logger.Debug("Recorded order placement",
		zap.String("total", total.StringFixed(2)),
		zap.Int("items", items),
	)
}

// RecordPaymentStatus counts a payment status transition.
func (m *OrderMetrics) RecordPaymentStatus(ctx context.Context, status string) {
	m.paymentTotal.Inc(ctx, AttrPaymentStatus.String(status))
}
