package customer

import (
	"strings"
	"time"

	"github.com/erp/storefront/internal/domain/customer"
	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileRequest carries the editable customer fields; absent fields are kept.
// An empty birth_date clears it.
type ProfileRequest struct {
	Phone      *string `json:"phone" binding:"omitempty,max=255"`
	BirthDate  *string `json:"birth_date"`
	Membership *string `json:"membership" binding:"omitempty,oneof=bronze silver gold"`
}

// CreateCustomerRequest is the staff create body
type CreateCustomerRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	ProfileRequest
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search     string `form:"search"`
	Membership string `form:"membership" binding:"omitempty,oneof=bronze silver gold"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=created_at membership"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Phone      string    `json:"phone"`
	BirthDate  *string   `json:"birth_date"`
	Membership string    `json:"membership"`
}

// HistoryOrder summarizes one order in a purchase history
type HistoryOrder struct {
	ID            uuid.UUID       `json:"id"`
	PlacedAt      time.Time       `json:"placed_at"`
	PaymentStatus string          `json:"payment_status"`
	ItemCount     int             `json:"item_count"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// HistoryResponse is the purchase history of a customer
type HistoryResponse struct {
	Message string         `json:"message"`
	Orders  []HistoryOrder `json:"orders"`
}

// ToCustomerResponse converts a domain Customer
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Phone:      c.Phone,
		Membership: string(c.Membership),
	}
	if c.BirthDate != nil {
		d := c.BirthDate.Format(time.DateOnly)
		resp.BirthDate = &d
	}
	return resp
}

func toHistoryOrder(o *ordering.Order) HistoryOrder {
	return HistoryOrder{
		ID:            o.ID,
		PlacedAt:      o.PlacedAt,
		PaymentStatus: o.PaymentStatus.String(),
		ItemCount:     o.ItemCount(),
		TotalPrice:    o.TotalPrice(),
	}
}

// profile converts the request into a domain Profile
func (r ProfileRequest) profile() (customer.Profile, error) {
	var p customer.Profile
	p.Phone = r.Phone
	if r.Membership != nil {
		m := customer.Membership(*r.Membership)
		p.Membership = &m
	}
	if r.BirthDate != nil {
		raw := strings.TrimSpace(*r.BirthDate)
		if raw == "" {
			p.ClearBirthDate = true
			return p, nil
		}
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return p, shared.NewFieldError("birth_date", "Birth date must be formatted YYYY-MM-DD")
		}
		p.BirthDate = &d
	}
	return p, nil
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
