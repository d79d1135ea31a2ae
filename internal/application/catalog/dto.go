package catalog

import (
	"time"

	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRequest carries every writable product field; used for create and full update
type ProductRequest struct {
	Title        string           `json:"title" binding:"required,min=1,max=255"`
	Description  string           `json:"description"`
	Slug         string           `json:"slug" binding:"required,min=1,max=255"`
	Inventory    *int             `json:"inventory" binding:"required,min=0"`
	UnitPrice    *decimal.Decimal `json:"unit_price" binding:"required"`
	CollectionID uuid.UUID        `json:"collection_id" binding:"required"`
}

// PatchProductRequest carries the product fields to change; absent fields are kept
type PatchProductRequest struct {
	Title        *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Description  *string          `json:"description"`
	Slug         *string          `json:"slug" binding:"omitempty,min=1,max=255"`
	Inventory    *int             `json:"inventory" binding:"omitempty,min=0"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	CollectionID *uuid.UUID       `json:"collection_id"`
}

func (r ProductRequest) params() catalog.ProductParams {
	params := catalog.ProductParams{
		Title:        r.Title,
		Description:  r.Description,
		Slug:         r.Slug,
		CollectionID: r.CollectionID,
	}
	if r.Inventory != nil {
		params.Inventory = *r.Inventory
	}
	if r.UnitPrice != nil {
		params.UnitPrice = *r.UnitPrice
	}
	return params
}

func (r PatchProductRequest) applyTo(params catalog.ProductParams) catalog.ProductParams {
	if r.Title != nil {
		params.Title = *r.Title
	}
	if r.Description != nil {
		params.Description = *r.Description
	}
	if r.Slug != nil {
		params.Slug = *r.Slug
	}
	if r.Inventory != nil {
		params.Inventory = *r.Inventory
	}
	if r.UnitPrice != nil {
		params.UnitPrice = *r.UnitPrice
	}
	if r.CollectionID != nil {
		params.CollectionID = *r.CollectionID
	}
	return params
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search       string   `form:"search"`
	CollectionID string   `form:"collection_id" binding:"omitempty,uuid"`
	MinPrice     *float64 `form:"min_price"`
	MaxPrice     *float64 `form:"max_price"`
	Page         int      `form:"page" binding:"omitempty,min=1"`
	PageSize     int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string   `form:"order_by" binding:"omitempty,oneof=unit_price last_update title"`
	OrderDir     string   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Slug         string          `json:"slug"`
	Inventory    int             `json:"inventory"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	PriceWithTax decimal.Decimal `json:"price_with_tax"`
	CollectionID uuid.UUID       `json:"collection_id"`
	LastUpdate   time.Time       `json:"last_update"`
}

// ToProductResponse converts a domain Product, pricing tax at taxRate
func ToProductResponse(p *catalog.Product, taxRate decimal.Decimal) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Slug:         p.Slug,
		Inventory:    p.Inventory,
		UnitPrice:    p.UnitPrice,
		PriceWithTax: p.PriceWithTax(taxRate),
		CollectionID: p.CollectionID,
		LastUpdate:   p.LastUpdate,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product, taxRate decimal.Decimal) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i], taxRate)
	}
	return responses
}

// CollectionRequest is the create and update body for a collection
type CollectionRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// PatchCollectionRequest is the partial update body for a collection
type PatchCollectionRequest struct {
	Title *string `json:"title" binding:"omitempty,min=1,max=255"`
}

// CollectionListFilter represents filter options for the collection list
type CollectionListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=title created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CollectionResponse represents a collection in API responses
type CollectionResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	ProductsCount int64     `json:"products_count"`
}

// ToCollectionResponse converts a domain Collection
func ToCollectionResponse(c *catalog.Collection, productsCount int64) CollectionResponse {
	return CollectionResponse{
		ID:            c.ID,
		Title:         c.Title,
		ProductsCount: productsCount,
	}
}

// ReviewRequest is the create and update body for a review
type ReviewRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description"`
}

// PatchReviewRequest is the partial update body for a review
type PatchReviewRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

// ReviewListFilter represents filter options for a product's reviews
type ReviewListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=date name created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
}

// ToReviewResponse converts a domain Review
func ToReviewResponse(r *catalog.Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		Name:        r.Name,
		Description: r.Description,
		Date:        r.Date.Format(time.DateOnly),
	}
}

func pageDefaults(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return page, pageSize
}
