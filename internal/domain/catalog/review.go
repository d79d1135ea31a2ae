package catalog

import (
	"strings"
	"time"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
)

// Review is a free-form opinion left on a product
type Review struct {
	shared.BaseEntity
	ProductID   uuid.UUID
	Name        string
	Description string
	Date        time.Time
}

// NewReview creates a review dated today
func NewReview(productID uuid.UUID, name, description string) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewFieldError("product_id", "Product is required")
	}
	name = strings.TrimSpace(name)
	if err := validateReviewName(name); err != nil {
		return nil, err
	}

	review := &Review{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		Name:        name,
		Description: description,
	}
	review.Date = review.CreatedAt.Truncate(24 * time.Hour)
	return review, nil
}

// Edit changes the reviewer name and text. The product and date never change.
func (r *Review) Edit(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateReviewName(name); err != nil {
		return err
	}
	r.Name = name
	r.Description = description
	r.Touch()
	return nil
}

func validateReviewName(name string) error {
	if name == "" {
		return shared.NewFieldError("name", "Name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewFieldError("name", "Name cannot exceed 255 characters")
	}
	return nil
}
