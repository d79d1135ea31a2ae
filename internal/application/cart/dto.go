package cart

import (
	"github.com/erp/storefront/internal/domain/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest is the body for adding a product to a cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=32767"`
}

// UpdateItemRequest is the body for changing a line quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=32767"`
}

// ProductSummary is the product as shown inside a cart line
type ProductSummary struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ItemResponse represents a priced cart line
type ItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Product    ProductSummary  `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartResponse represents a cart with its lines and total
type CartResponse struct {
	ID         uuid.UUID       `json:"id"`
	Items      []ItemResponse  `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// WrittenItemResponse is returned after an add or update
type WrittenItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// ToItemResponse converts a priced line
func ToItemResponse(p cart.Priced) ItemResponse {
	return ItemResponse{
		ID: p.ID,
		Product: ProductSummary{
			ID:        p.ProductID,
			Title:     p.Title,
			UnitPrice: p.UnitPrice,
		},
		Quantity:   p.Quantity,
		TotalPrice: p.TotalPrice(),
	}
}

// ToCartResponse converts a cart id and its priced lines
func ToCartResponse(id uuid.UUID, lines []cart.Priced) CartResponse {
	items := make([]ItemResponse, len(lines))
	for i := range lines {
		items[i] = ToItemResponse(lines[i])
	}
	return CartResponse{
		ID:         id,
		Items:      items,
		TotalPrice: cart.Total(lines),
	}
}

func toWrittenItemResponse(item *cart.Item) WrittenItemResponse {
	return WrittenItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
}
