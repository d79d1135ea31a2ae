package catalog

import (
	"context"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFilter narrows a product listing.
// Price bounds are exclusive.
type ProductFilter struct {
	shared.Filter
	CollectionID *uuid.UUID
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds every product whose ID is in ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter ProductFilter) (int64, error)

	// ExistsBySlug checks whether another product already uses the slug
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	// HasOrderItems reports whether any order item references the product
	HasOrderItems(ctx context.Context, id uuid.UUID) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}

// CollectionRepository defines the interface for collection persistence
type CollectionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Collection, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Collection, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// CountProducts returns the number of products in each of the given collections.
	// Collections without products are absent from the map.
	CountProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)

	Save(ctx context.Context, collection *Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewRepository defines the interface for review persistence.
// Reviews are always addressed through their product.
type ReviewRepository interface {
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// FindForProduct returns ErrNotFound when the review belongs to another product
	FindForProduct(ctx context.Context, productID, id uuid.UUID) (*Review, error)

	Save(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}
