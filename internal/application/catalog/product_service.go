// Package catalog implements the product, collection and review use cases.
package catalog

import (
	"context"
	"strings"

	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrSlugTaken is returned when another product already uses the slug
var ErrSlugTaken = shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	collectionRepo catalog.CollectionRepository
	taxRate        decimal.Decimal
	events         shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(
	productRepo catalog.ProductRepository,
	collectionRepo catalog.CollectionRepository,
	taxRate decimal.Decimal,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
		taxRate:        taxRate,
		events:         events,
		logger:         logger,
	}
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)

	domainFilter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
	}
	if filter.CollectionID != "" {
		id, err := uuid.Parse(filter.CollectionID)
		if err != nil {
			return nil, 0, shared.NewFieldError("collection_id", "Invalid collection ID")
		}
		domainFilter.CollectionID = &id
	}
	if filter.MinPrice != nil {
		v := decimal.NewFromFloat(*filter.MinPrice)
		domainFilter.MinPrice = &v
	}
	if filter.MaxPrice != nil {
		v := decimal.NewFromFloat(*filter.MaxPrice)
		domainFilter.MaxPrice = &v
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products, s.taxRate), total, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product, s.taxRate)
	return &response, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	params := req.params()
	if err := s.checkReferences(ctx, params, uuid.Nil); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(params)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	response := ToProductResponse(product, s.taxRate)
	return &response, nil
}

// Update replaces every writable field of a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	return s.update(ctx, id, func(catalog.ProductParams) catalog.ProductParams {
		return req.params()
	})
}

// Patch changes only the fields present in the request
func (s *ProductService) Patch(ctx context.Context, id uuid.UUID, req PatchProductRequest) (*ProductResponse, error) {
	return s.update(ctx, id, req.applyTo)
}

func (s *ProductService) update(ctx context.Context, id uuid.UUID, change func(catalog.ProductParams) catalog.ProductParams) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	params := change(product.Params())
	if err := s.checkReferences(ctx, params, product.ID); err != nil {
		return nil, err
	}
	if err := product.Update(params); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	response := ToProductResponse(product, s.taxRate)
	return &response, nil
}

// Delete removes a product. Products referenced by order items are protected.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// checkReferences verifies the collection exists and the slug is free
func (s *ProductService) checkReferences(ctx context.Context, params catalog.ProductParams, selfID uuid.UUID) error {
	if params.CollectionID != uuid.Nil {
		exists, err := s.collectionRepo.ExistsByID(ctx, params.CollectionID)
		if err != nil {
			return err
		}
		if !exists {
			return catalog.ErrCollectionNotFound
		}
	}
	if slug := strings.ToLower(strings.TrimSpace(params.Slug)); slug != "" {
		taken, err := s.productRepo.ExistsBySlug(ctx, slug, selfID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlugTaken
		}
	}
	return nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	events := product.PullDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}
