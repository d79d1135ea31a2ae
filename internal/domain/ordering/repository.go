package ordering

import (
	"context"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderFilter narrows an order listing
type OrderFilter struct {
	shared.Filter
	// CustomerID restricts results to one customer's orders when set
	CustomerID *uuid.UUID
}

// OrderRepository defines the interface for order persistence.
// Orders are created only through the placement unit of work.
type OrderRepository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll loads orders with their items
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)

	Count(ctx context.Context, filter OrderFilter) (int64, error)

	// UpdatePaymentStatus persists the order's payment status and nothing else
	UpdatePaymentStatus(ctx context.Context, order *Order) error

	// DeleteWithItems removes the order and its items in one transaction
	DeleteWithItems(ctx context.Context, id uuid.UUID) error
}

// PlacementTx is the set of operations available inside an order placement
// transaction. Every call shares the same database transaction.
type PlacementTx interface {
	// LockCart takes a row lock on the cart. It returns ErrCartNotFound when the cart is missing.
	LockCart(ctx context.Context, cartID uuid.UUID) error

	// CartLines returns the cart's items priced at the products' current unit price
	CartLines(ctx context.Context, cartID uuid.UUID) ([]Line, error)

	// CustomerIDForUser resolves the user's customer, creating it if missing
	CustomerIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)

	// InsertOrder inserts the order row followed by its items
	InsertOrder(ctx context.Context, order *Order) error

	// ClearCart deletes every item of the cart, keeping the cart itself
	ClearCart(ctx context.Context, cartID uuid.UUID) error
}

// UnitOfWork runs fn atomically. Any error returned by fn rolls back every write.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx PlacementTx) error) error
}
