package ordering

import (
	"time"

	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceOrderRequest is the checkout body
type PlaceOrderRequest struct {
	CartID uuid.UUID `json:"cart_id" binding:"required"`
}

// UpdateOrderRequest changes the payment status, the only mutable order field
type UpdateOrderRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=pending complete failed"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending complete failed"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string `form:"order_by" binding:"omitempty,oneof=placed_at payment_status"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderProduct is the product as shown inside an order line
type OrderProduct struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// OrderItemResponse represents an order line priced at its snapshot
type OrderItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Product    OrderProduct    `json:"product"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	PlacedAt      time.Time           `json:"placed_at"`
	PaymentStatus string              `json:"payment_status"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	Items         []OrderItemResponse `json:"items"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
}

// ToOrderResponse converts a domain Order
func ToOrderResponse(o *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:         item.ID,
			Product:    OrderProduct{ID: item.ProductID, Title: item.ProductTitle},
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice(),
		}
	}
	return OrderResponse{
		ID:            o.ID,
		PlacedAt:      o.PlacedAt,
		PaymentStatus: o.PaymentStatus.String(),
		CustomerID:    o.CustomerID,
		Items:         items,
		TotalPrice:    o.TotalPrice(),
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
