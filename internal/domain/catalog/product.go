package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// MinUnitPrice is the lowest price a product can carry
var MinUnitPrice = decimal.NewFromInt(1)

// Product is a sellable item in a collection.
// It is the aggregate root for reviews.
type Product struct {
	shared.BaseAggregateRoot
	Title        string
	Description  string
	Slug         string
	Inventory    int
	UnitPrice    decimal.Decimal
	CollectionID uuid.UUID
	LastUpdate   time.Time
}

// ProductParams holds every writable product attribute
type ProductParams struct {
	Title        string
	Description  string
	Slug         string
	Inventory    int
	UnitPrice    decimal.Decimal
	CollectionID uuid.UUID
}

// NewProduct creates a new product
func NewProduct(params ProductParams) (*Product, error) {
	params = params.normalized()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
	product.apply(params)
	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update replaces every writable attribute
func (p *Product) Update(params ProductParams) error {
	params = params.normalized()
	if err := params.Validate(); err != nil {
		return err
	}

	oldPrice := p.UnitPrice
	p.apply(params)
	if !oldPrice.Equal(p.UnitPrice) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))
	}
	return nil
}

// Params returns the current writable attributes, used as the base for partial updates
func (p *Product) Params() ProductParams {
	return ProductParams{
		Title:        p.Title,
		Description:  p.Description,
		Slug:         p.Slug,
		Inventory:    p.Inventory,
		UnitPrice:    p.UnitPrice,
		CollectionID: p.CollectionID,
	}
}

// PriceWithTax returns the unit price including tax at the given rate
func (p *Product) PriceWithTax(taxRate decimal.Decimal) decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(1).Add(taxRate)).Round(2)
}

func (p *Product) apply(params ProductParams) {
	p.Title = params.Title
	p.Description = params.Description
	p.Slug = params.Slug
	p.Inventory = params.Inventory
	p.UnitPrice = params.UnitPrice
	p.CollectionID = params.CollectionID
	p.Touch()
	p.LastUpdate = p.UpdatedAt
}

func (params ProductParams) normalized() ProductParams {
	params.Title = strings.TrimSpace(params.Title)
	params.Slug = strings.ToLower(strings.TrimSpace(params.Slug))
	return params
}

// Validate checks the attribute constraints
func (params ProductParams) Validate() error {
	if err := validateTitle(params.Title); err != nil {
		return err
	}
	if params.Slug == "" {
		return shared.NewFieldError("slug", "Slug cannot be empty")
	}
	if len(params.Slug) > 255 {
		return shared.NewFieldError("slug", "Slug cannot exceed 255 characters")
	}
	if !slugPattern.MatchString(params.Slug) {
		return shared.NewFieldError("slug", "Slug may only contain lowercase letters, numbers and hyphens")
	}
	if params.Inventory < 0 {
		return shared.NewFieldError("inventory", "Inventory cannot be negative")
	}
	if params.UnitPrice.LessThan(MinUnitPrice) {
		return shared.NewFieldError("unit_price", "Unit price must be at least 1")
	}
	if params.CollectionID == uuid.Nil {
		return shared.NewFieldError("collection_id", "Collection is required")
	}
	return nil
}
