// Package ordering turns carts into orders.
package ordering

import (
	"time"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusComplete PaymentStatus = "complete"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// IsValid checks if the status is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusComplete, PaymentStatusFailed:
		return true
	}
	return false
}

// String returns the string representation
func (s PaymentStatus) String() string {
	return string(s)
}

// Line is a product and quantity about to become an order item,
// priced at the moment of placement.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// OrderItem is an immutable line of a placed order
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal

	// ProductTitle is filled on reads for display and is not persisted with the item
	ProductTitle string
}

// TotalPrice is the snapshot unit price times quantity
func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a placed purchase. Only the payment status changes after placement.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID    uuid.UUID
	PlacedAt      time.Time
	PaymentStatus PaymentStatus
	Items         []OrderItem
}

// PlaceOrder builds a pending order from priced lines.
// Each item snapshots the line's unit price.
func PlaceOrder(customerID uuid.UUID, lines []Line) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewFieldError("customer_id", "Customer is required")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		PaymentStatus:     PaymentStatusPending,
	}
	order.PlacedAt = order.CreatedAt

	order.Items = make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, shared.NewFieldError("quantity", "Quantity must be at least 1")
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		order.Items = append(order.Items, OrderItem{
			BaseEntity: shared.NewBaseEntity(),
			OrderID:    order.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
		})
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// SetPaymentStatus changes the payment status
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewFieldError("payment_status", "Payment status must be one of pending, complete, failed")
	}
	if status == o.PaymentStatus {
		return nil
	}
	old := o.PaymentStatus
	o.PaymentStatus = status
	o.Touch()
	o.AddDomainEvent(NewPaymentStatusChangedEvent(o, old))
	return nil
}

// EnsureDeletable refuses unless the order failed payment
func (o *Order) EnsureDeletable() error {
	if o.PaymentStatus != PaymentStatusFailed {
		return ErrOrderNotDeletable
	}
	return nil
}

// TotalPrice sums the item totals
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// ItemCount returns the number of lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// Placement errors
var (
	ErrCartNotFound      = shared.NewFieldError("cart_id", "Cart not found")
	ErrEmptyCart         = shared.NewFieldError("cart_id", "Cart is empty")
	ErrOrderNotDeletable = shared.NewDomainError(shared.CodeDeleteProtected, "Cannot delete an order that is not failed")
)
