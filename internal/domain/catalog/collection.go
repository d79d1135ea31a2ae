package catalog

import (
	"strings"

	"github.com/erp/storefront/internal/domain/shared"
)

// Collection groups products for browsing
type Collection struct {
	shared.BaseAggregateRoot
	Title string
}

// NewCollection creates a new collection
func NewCollection(title string) (*Collection, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	return &Collection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
	}, nil
}

// Rename changes the collection title
func (c *Collection) Rename(title string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	c.Title = title
	c.Touch()
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewFieldError("title", "Title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewFieldError("title", "Title cannot exceed 255 characters")
	}
	return nil
}
