package cart

import (
	"math"
	"testing"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RandomIDs(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, uuid.Version(4), a.ID.Version())
	assert.Empty(t, a.Items)
}

func TestNewItem(t *testing.T) {
	cartID := uuid.New()

	item, err := NewItem(cartID, uuid.New(), 2)
	require.NoError(t, err)
	assert.Equal(t, cartID, item.CartID)
	assert.Equal(t, 2, item.Quantity)

	_, err = NewItem(cartID, uuid.New(), 0)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "quantity", domainErr.Field)

	_, err = NewItem(cartID, uuid.Nil, 1)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "product_id", domainErr.Field)
}

func TestItem_AddMergesQuantity(t *testing.T) {
	item, err := NewItem(uuid.New(), uuid.New(), 2)
	require.NoError(t, err)

	require.NoError(t, item.Add(3))
	assert.Equal(t, 5, item.Quantity)

	assert.Error(t, item.Add(0))
	assert.Equal(t, 5, item.Quantity)
}

func TestItem_QuantityUpperBound(t *testing.T) {
	_, err := NewItem(uuid.New(), uuid.New(), MaxQuantity+1)
	assert.ErrorIs(t, err, ErrQuantityTooLarge)

	item, err := NewItem(uuid.New(), uuid.New(), MaxQuantity-1)
	require.NoError(t, err)

	require.NoError(t, item.Add(1))
	assert.Equal(t, MaxQuantity, item.Quantity)

	err = item.Add(1)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "quantity", domainErr.Field)
	assert.Equal(t, MaxQuantity, item.Quantity)

	big, err := NewItem(uuid.New(), uuid.New(), 1)
	require.NoError(t, err)
	big.Quantity = math.MaxInt
	assert.ErrorIs(t, big.Add(1), ErrQuantityTooLarge)
	assert.Equal(t, math.MaxInt, big.Quantity)

	assert.ErrorIs(t, item.SetQuantity(MaxQuantity+1), ErrQuantityTooLarge)
}

func TestItem_SetQuantity(t *testing.T) {
	item, err := NewItem(uuid.New(), uuid.New(), 4)
	require.NoError(t, err)

	require.NoError(t, item.SetQuantity(1))
	assert.Equal(t, 1, item.Quantity)
	assert.Error(t, item.SetQuantity(-1))
	assert.Equal(t, 1, item.Quantity)
}

func TestTotal(t *testing.T) {
	lines := []Priced{
		{Item: Item{Quantity: 2}, UnitPrice: decimal.NewFromFloat(10.25)},
		{Item: Item{Quantity: 3}, UnitPrice: decimal.NewFromInt(4)},
	}

	assert.Equal(t, "20.50", lines[0].TotalPrice().StringFixed(2))
	assert.Equal(t, "32.50", Total(lines).StringFixed(2))
	assert.True(t, Total(nil).IsZero())
}
