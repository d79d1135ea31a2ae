package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines cart persistence.
// Item lookups are always scoped to the owning cart.
type Repository interface {
	// Create inserts a new, empty cart
	Create(ctx context.Context, cart *Cart) error

	// Exists reports whether the cart exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// FindByID loads the cart with its items, without prices
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// Delete removes the cart and, by cascade, its items
	Delete(ctx context.Context, id uuid.UUID) error

	// PricedItems returns the cart's items joined with current product price and title
	PricedItems(ctx context.Context, cartID uuid.UUID) ([]Priced, error)

	// FindItem returns ErrNotFound when the item is not in the cart
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*Item, error)

	// AddItem merges quantity into the cart's line for the product, creating the line if needed.
	// The read-modify-write happens under a row lock.
	AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*Item, error)

	SaveItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
}
