package models

import (
	"time"

	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	BaseModel
	CustomerID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	PlacedAt      time.Time              `gorm:"not null;index"`
	PaymentStatus ordering.PaymentStatus `gorm:"type:varchar(10);not null"`
	Items         []OrderItemModel       `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order, items included when loaded
func (m *OrderModel) ToDomain() *ordering.Order {
	order := &ordering.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CustomerID:        m.CustomerID,
		PlacedAt:          m.PlacedAt,
		PaymentStatus:     m.PaymentStatus,
		Items:             make([]ordering.OrderItem, len(m.Items)),
	}
	for i := range m.Items {
		order.Items[i] = *m.Items[i].ToDomain()
	}
	return order
}

// FromDomain populates the order row. Items are converted separately.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.CustomerID = o.CustomerID
	m.PlacedAt = o.PlacedAt
	m.PaymentStatus = o.PaymentStatus
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for order lines.
// Product is only populated by preloads and is never written.
type OrderItemModel struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Product   *ProductModel   `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() *ordering.OrderItem {
	item := &ordering.OrderItem{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
	}
	if m.Product != nil {
		item.ProductTitle = m.Product.Title
	}
	return item
}

// OrderItemModelsFromDomain converts every item of the order
func OrderItemModelsFromDomain(o *ordering.Order) []OrderItemModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i].FromDomainBaseEntity(item.BaseEntity)
		items[i].OrderID = o.ID
		items[i].ProductID = item.ProductID
		items[i].Quantity = item.Quantity
		items[i].UnitPrice = item.UnitPrice
	}
	return items
}
