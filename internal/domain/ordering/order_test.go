package ordering

import (
	"errors"
	"testing"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLines() []Line {
	return []Line{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromFloat(9.99)},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(25)},
	}
}

func TestPlaceOrder(t *testing.T) {
	customerID := uuid.New()
	lines := sampleLines()

	order, err := PlaceOrder(customerID, lines)
	require.NoError(t, err)

	assert.Equal(t, customerID, order.CustomerID)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	assert.False(t, order.PlacedAt.IsZero())
	require.Len(t, order.Items, 2)

	for i, item := range order.Items {
		assert.Equal(t, order.ID, item.OrderID)
		assert.Equal(t, lines[i].ProductID, item.ProductID)
		assert.Equal(t, lines[i].Quantity, item.Quantity)
		assert.True(t, lines[i].UnitPrice.Equal(item.UnitPrice))
	}
	assert.Equal(t, "44.98", order.TotalPrice().StringFixed(2))

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeOrderCreated, created.EventType())
	assert.Equal(t, order.ID, created.AggregateID())
	assert.Len(t, created.Items, 2)
	assert.True(t, created.TotalAmount.Equal(order.TotalPrice()))
}

func TestPlaceOrder_SnapshotIsIndependentOfLines(t *testing.T) {
	lines := sampleLines()
	order, err := PlaceOrder(uuid.New(), lines)
	require.NoError(t, err)

	lines[0].UnitPrice = decimal.NewFromInt(1000)
	assert.Equal(t, "9.99", order.Items[0].UnitPrice.StringFixed(2))
}

func TestPlaceOrder_Rejects(t *testing.T) {
	t.Run("empty lines", func(t *testing.T) {
		_, err := PlaceOrder(uuid.New(), nil)
		assert.True(t, errors.Is(err, ErrEmptyCart))
	})

	t.Run("missing customer", func(t *testing.T) {
		_, err := PlaceOrder(uuid.Nil, sampleLines())
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "customer_id", domainErr.Field)
	})

	t.Run("zero quantity", func(t *testing.T) {
		lines := sampleLines()
		lines[1].Quantity = 0
		_, err := PlaceOrder(uuid.New(), lines)
		assert.Error(t, err)
	})
}

func TestOrder_SetPaymentStatus(t *testing.T) {
	order, err := PlaceOrder(uuid.New(), sampleLines())
	require.NoError(t, err)
	order.ClearDomainEvents()

	require.NoError(t, order.SetPaymentStatus(PaymentStatusComplete))
	assert.Equal(t, PaymentStatusComplete, order.PaymentStatus)
	require.Len(t, order.GetDomainEvents(), 1)

	require.NoError(t, order.SetPaymentStatus(PaymentStatusComplete))
	assert.Len(t, order.GetDomainEvents(), 1, "no-op change records nothing")

	err = order.SetPaymentStatus("refunded")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "payment_status", domainErr.Field)
	assert.Equal(t, PaymentStatusComplete, order.PaymentStatus)
}

func TestOrder_EnsureDeletable(t *testing.T) {
	order, err := PlaceOrder(uuid.New(), sampleLines())
	require.NoError(t, err)

	assert.ErrorIs(t, order.EnsureDeletable(), ErrOrderNotDeletable)

	require.NoError(t, order.SetPaymentStatus(PaymentStatusComplete))
	assert.ErrorIs(t, order.EnsureDeletable(), ErrOrderNotDeletable)

	require.NoError(t, order.SetPaymentStatus(PaymentStatusFailed))
	assert.NoError(t, order.EnsureDeletable())
}

func TestPaymentStatus_IsValid(t *testing.T) {
	for _, s := range []PaymentStatus{PaymentStatusPending, PaymentStatusComplete, PaymentStatusFailed} {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, PaymentStatus("P").IsValid())
}
