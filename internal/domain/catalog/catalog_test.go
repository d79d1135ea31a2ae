package catalog

import (
	"strings"
	"testing"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() ProductParams {
	return ProductParams{
		Title:        "  Coffee Beans ",
		Description:  "Dark roast",
		Slug:         "Coffee-Beans",
		Inventory:    10,
		UnitPrice:    decimal.NewFromFloat(12.5),
		CollectionID: uuid.New(),
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Field
}

func TestNewProduct(t *testing.T) {
	t.Run("normalizes and records creation", func(t *testing.T) {
		product, err := NewProduct(validParams())
		require.NoError(t, err)

		assert.Equal(t, "Coffee Beans", product.Title)
		assert.Equal(t, "coffee-beans", product.Slug)
		assert.False(t, product.LastUpdate.IsZero())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	tests := []struct {
		name   string
		mutate func(*ProductParams)
		field  string
	}{
		{"empty title", func(p *ProductParams) { p.Title = "  " }, "title"},
		{"title too long", func(p *ProductParams) { p.Title = strings.Repeat("a", 256) }, "title"},
		{"empty slug", func(p *ProductParams) { p.Slug = "" }, "slug"},
		{"bad slug", func(p *ProductParams) { p.Slug = "has space" }, "slug"},
		{"negative inventory", func(p *ProductParams) { p.Inventory = -1 }, "inventory"},
		{"price below one", func(p *ProductParams) { p.UnitPrice = decimal.NewFromFloat(0.99) }, "unit_price"},
		{"missing collection", func(p *ProductParams) { p.CollectionID = uuid.Nil }, "collection_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			_, err := NewProduct(params)
			assert.Equal(t, tt.field, fieldOf(t, err))
		})
	}
}

func TestProduct_Update(t *testing.T) {
	product, err := NewProduct(validParams())
	require.NoError(t, err)
	product.ClearDomainEvents()

	t.Run("same price records nothing", func(t *testing.T) {
		params := product.Params()
		params.Description = "Medium roast"
		require.NoError(t, product.Update(params))
		assert.Equal(t, "Medium roast", product.Description)
		assert.Empty(t, product.GetDomainEvents())
	})

	t.Run("price change is recorded", func(t *testing.T) {
		params := product.Params()
		params.UnitPrice = decimal.NewFromInt(15)
		require.NoError(t, product.Update(params))

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*ProductPriceChangedEvent)
		require.True(t, ok)
		assert.True(t, changed.OldPrice.Equal(decimal.NewFromFloat(12.5)))
		assert.True(t, changed.NewPrice.Equal(decimal.NewFromInt(15)))
	})

	t.Run("invalid update leaves product untouched", func(t *testing.T) {
		params := product.Params()
		params.Inventory = -5
		assert.Error(t, product.Update(params))
		assert.Equal(t, 10, product.Inventory)
	})
}

func TestProduct_PriceWithTax(t *testing.T) {
	product, err := NewProduct(validParams())
	require.NoError(t, err)

	assert.Equal(t, "13.75", product.PriceWithTax(decimal.NewFromFloat(0.1)).StringFixed(2))
	assert.Equal(t, "12.50", product.PriceWithTax(decimal.Zero).StringFixed(2))
}

func TestCollection(t *testing.T) {
	collection, err := NewCollection(" Beverages ")
	require.NoError(t, err)
	assert.Equal(t, "Beverages", collection.Title)

	require.NoError(t, collection.Rename("Drinks"))
	assert.Equal(t, "Drinks", collection.Title)

	assert.Equal(t, "title", fieldOf(t, collection.Rename("")))
	_, err = NewCollection(strings.Repeat("x", 256))
	assert.Equal(t, "title", fieldOf(t, err))
}

func TestReview(t *testing.T) {
	productID := uuid.New()

	review, err := NewReview(productID, "Ada", "Great beans")
	require.NoError(t, err)
	assert.Equal(t, productID, review.ProductID)
	assert.False(t, review.Date.IsZero())

	require.NoError(t, review.Edit("Ada L.", "Still great"))
	assert.Equal(t, "Ada L.", review.Name)
	assert.Equal(t, productID, review.ProductID)

	_, err = NewReview(productID, "", "x")
	assert.Equal(t, "name", fieldOf(t, err))

	_, err = NewReview(uuid.Nil, "Ada", "x")
	assert.Equal(t, "product_id", fieldOf(t, err))
}
