// Package cart models anonymous shopping carts.
//
// Carts are addressed only by an opaque random id, so knowing the id is
// what grants access to the cart.
package cart

import (
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a set of product lines, at most one line per product
type Cart struct {
	shared.BaseAggregateRoot
	Items []Item
}

// Item is a product line in a cart
type Item struct {
	shared.BaseEntity
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// Priced pairs a cart item with the product's current price and title
type Priced struct {
	Item
	Title     string
	UnitPrice decimal.Decimal
}

// TotalPrice is the current unit price times quantity
func (p Priced) TotalPrice() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// New creates an empty cart with a random id
func New() *Cart {
	return &Cart{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
}

// NewItem creates a line for a product
func NewItem(cartID, productID uuid.UUID, quantity int) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewFieldError("product_id", "Product is required")
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     cartID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}

// Add merges quantity into the existing line. The merged quantity is bounded by MaxQuantity.
func (i *Item) Add(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if quantity > MaxQuantity-i.Quantity {
		return ErrQuantityTooLarge
	}
	i.Quantity += quantity
	i.Touch()
	return nil
}

// SetQuantity replaces the line quantity
func (i *Item) SetQuantity(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	i.Touch()
	return nil
}

// MaxQuantity is the largest quantity a line can hold
const MaxQuantity = 32767

// ErrQuantityTooLarge is returned when a line would exceed MaxQuantity
var ErrQuantityTooLarge = shared.NewFieldError("quantity", "Quantity must be at most 32767")

// ValidateQuantity checks a line quantity is between one and MaxQuantity
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewFieldError("quantity", "Quantity must be at least 1")
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	return nil
}

// Total sums the line totals
func Total(lines []Priced) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.TotalPrice())
	}
	return total
}

// ErrProductNotFound is returned when a line references a product that does not exist
var ErrProductNotFound = shared.NewFieldError("product_id", "Product not found")
