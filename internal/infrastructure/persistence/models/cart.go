package models

import (
	"time"

	"github.com/erp/storefront/internal/domain/cart"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartModel is the persistence model for carts. Carts have no mutable columns.
type CartModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time       `gorm:"not null"`
	Items     []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart, items included when loaded
func (m *CartModel) ToDomain() *cart.Cart {
	c := &cart.Cart{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.CreatedAt,
			},
		},
		Items: make([]cart.Item, len(m.Items)),
	}
	for i := range m.Items {
		c.Items[i] = *m.Items[i].ToDomain()
	}
	return c
}

// CartModelFromDomain creates a persistence model for a new cart. Items are stored separately.
func CartModelFromDomain(c *cart.Cart) *CartModel {
	return &CartModel{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
	}
}

// CartItemModel is the persistence model for cart lines
type CartItemModel struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	Quantity  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain cart Item
func (m *CartItemModel) ToDomain() *cart.Item {
	return &cart.Item{
		BaseEntity: m.BaseModel.ToDomain(),
		CartID:     m.CartID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain cart Item
func (m *CartItemModel) FromDomain(i *cart.Item) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.CartID = i.CartID
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
}

// CartItemModelFromDomain creates a new persistence model from a domain cart Item
func CartItemModelFromDomain(i *cart.Item) *CartItemModel {
	m := &CartItemModel{}
	m.FromDomain(i)
	return m
}

// PricedCartItemRow is the scan target for cart items joined with their product
type PricedCartItemRow struct {
	CartItemModel
	Title     string
	UnitPrice decimal.Decimal
}

// ToDomain converts the row to a domain Priced line
func (r *PricedCartItemRow) ToDomain() cart.Priced {
	return cart.Priced{
		Item:      *r.CartItemModel.ToDomain(),
		Title:     r.Title,
		UnitPrice: r.UnitPrice,
	}
}
