package customer

import (
	"context"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for customer persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByUserID finds the customer attached to a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Customer, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a customer. A second customer for the same user is ErrAlreadyExists.
	Save(ctx context.Context, customer *Customer) error

	Delete(ctx context.Context, id uuid.UUID) error
}
