package models

import (
	"time"

	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollectionModel is the persistence model for the Collection aggregate
type CollectionModel struct {
	BaseModel
	Title string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (CollectionModel) TableName() string {
	return "collections"
}

// ToDomain converts the persistence model to a domain Collection
func (m *CollectionModel) ToDomain() *catalog.Collection {
	return &catalog.Collection{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
	}
}

// FromDomain populates the persistence model from a domain Collection
func (m *CollectionModel) FromDomain(c *catalog.Collection) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Title = c.Title
}

// CollectionModelFromDomain creates a new persistence model from a domain Collection
func CollectionModelFromDomain(c *catalog.Collection) *CollectionModel {
	m := &CollectionModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	BaseModel
	Title        string          `gorm:"type:varchar(255);not null"`
	Description  string          `gorm:"type:text"`
	Slug         string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Inventory    int             `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CollectionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LastUpdate   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Slug:              m.Slug,
		Inventory:         m.Inventory,
		UnitPrice:         m.UnitPrice,
		CollectionID:      m.CollectionID,
		LastUpdate:        m.LastUpdate,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Title = p.Title
	m.Description = p.Description
	m.Slug = p.Slug
	m.Inventory = p.Inventory
	m.UnitPrice = p.UnitPrice
	m.CollectionID = p.CollectionID
	m.LastUpdate = p.LastUpdate
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ReviewModel is the persistence model for product reviews
type ReviewModel struct {
	BaseModel
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Date        time.Time `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the persistence model to a domain Review
func (m *ReviewModel) ToDomain() *catalog.Review {
	return &catalog.Review{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProductID:   m.ProductID,
		Name:        m.Name,
		Description: m.Description,
		Date:        m.Date,
	}
}

// FromDomain populates the persistence model from a domain Review
func (m *ReviewModel) FromDomain(r *catalog.Review) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.ProductID = r.ProductID
	m.Name = r.Name
	m.Description = r.Description
	m.Date = r.Date
}

// ReviewModelFromDomain creates a new persistence model from a domain Review
func ReviewModelFromDomain(r *catalog.Review) *ReviewModel {
	m := &ReviewModel{}
	m.FromDomain(r)
	return m
}
