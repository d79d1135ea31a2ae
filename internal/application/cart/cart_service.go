// Package cart implements the anonymous cart use cases.
package cart

import (
	"context"

	"github.com/erp/storefront/internal/domain/cart"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService handles carts and their lines
type CartService struct {
	repo   cart.Repository
	logger *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(repo cart.Repository, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{repo: repo, logger: logger}
}

// Create opens a new empty cart
func (s *CartService) Create(ctx context.Context) (*CartResponse, error) {
	c := cart.New()
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Debug("Cart created", zap.String("cart_id", c.ID.String()))

	response := ToCartResponse(c.ID, nil)
	return &response, nil
}

// Get returns the cart priced at current product prices
func (s *CartService) Get(ctx context.Context, id uuid.UUID) (*CartResponse, error) {
	lines, err := s.pricedLines(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(id, lines)
	return &response, nil
}

// Delete removes the cart and its lines
func (s *CartService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListItems returns the priced lines of a cart
func (s *CartService) ListItems(ctx context.Context, cartID uuid.UUID) ([]ItemResponse, error) {
	lines, err := s.pricedLines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	items := make([]ItemResponse, len(lines))
	for i := range lines {
		items[i] = ToItemResponse(lines[i])
	}
	return items, nil
}

// GetItem returns one priced line of the cart
func (s *CartService) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*ItemResponse, error) {
	lines, err := s.pricedLines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].ID == itemID {
			response := ToItemResponse(lines[i])
			return &response, nil
		}
	}
	return nil, shared.ErrNotFound
}

// AddItem adds quantity of a product, merging into an existing line
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, req AddItemRequest) (*WrittenItemResponse, error) {
	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	item, err := s.repo.AddItem(ctx, cartID, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}
	response := toWrittenItemResponse(item)
	return &response, nil
}

// UpdateItem sets the quantity of a line
func (s *CartService) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, req UpdateItemRequest) (*WrittenItemResponse, error) {
	item, err := s.repo.FindItem(ctx, cartID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	response := toWrittenItemResponse(item)
	return &response, nil
}

// RemoveItem deletes a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return s.repo.DeleteItem(ctx, cartID, itemID)
}

func (s *CartService) pricedLines(ctx context.Context, cartID uuid.UUID) ([]cart.Priced, error) {
	exists, err := s.repo.Exists(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}
	return s.repo.PricedItems(ctx, cartID)
}
