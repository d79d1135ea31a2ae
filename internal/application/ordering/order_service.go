// Package ordering implements checkout and order management.
package ordering

import (
	"context"
	"errors"

	"github.com/erp/storefront/internal/domain/customer"
	"github.com/erp/storefront/internal/domain/identity"
	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order placement and the order lifecycle
type OrderService struct {
	uow       ordering.UnitOfWork
	orderRepo ordering.OrderRepository
	customers customer.Repository
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(
	uow ordering.UnitOfWork,
	orderRepo ordering.OrderRepository,
	customers customer.Repository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		uow:       uow,
		orderRepo: orderRepo,
		customers: customers,
		events:    events,
		logger:    logger,
	}
}

// Place converts the cart into an order for the requesting user.
// Locking the cart, snapshotting prices, inserting the order and emptying
// the cart happen in one unit of work; notifications go out after commit.
func (s *OrderService) Place(ctx context.Context, principal identity.Principal, req PlaceOrderRequest) (*OrderResponse, error) {
	if !principal.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}

	var order *ordering.Order
	err := s.uow.Execute(ctx, func(tx ordering.PlacementTx) error {
		order = nil

		if err := tx.LockCart(ctx, req.CartID); err != nil {
			return err
		}
		lines, err := tx.CartLines(ctx, req.CartID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ordering.ErrEmptyCart
		}
		customerID, err := tx.CustomerIDForUser(ctx, principal.UserID)
		if err != nil {
			return err
		}

		placed, err := ordering.PlaceOrder(customerID, lines)
		if err != nil {
			return err
		}
		if err := tx.InsertOrder(ctx, placed); err != nil {
			return err
		}
		if err := tx.ClearCart(ctx, req.CartID); err != nil {
			return err
		}
		order = placed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("cart_id", req.CartID.String()),
		zap.Int("items", order.ItemCount()),
	)
	s.publish(ctx, order)

	// re-read for product titles; the placed order is still a valid answer
	if stored, err := s.orderRepo.FindByID(ctx, order.ID); err == nil {
		order = stored
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List returns every order to staff and only the caller's own orders otherwise
func (s *OrderService) List(ctx context.Context, principal identity.Principal, filter OrderListFilter) ([]OrderResponse, int64, error) {
	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	domainFilter := ordering.OrderFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Filters:  map[string]interface{}{},
		},
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}

	if !principal.IsStaff {
		customerID, found, err := s.customerFor(ctx, principal)
		if err != nil {
			return nil, 0, err
		}
		if !found {
			return []OrderResponse{}, 0, nil
		}
		domainFilter.CustomerID = &customerID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// GetByID returns an order the principal may see. Another customer's order is not found.
func (s *OrderService) GetByID(ctx context.Context, principal identity.Principal, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsStaff {
		customerID, found, err := s.customerFor(ctx, principal)
		if err != nil {
			return nil, err
		}
		if !found || order.CustomerID != customerID {
			return nil, shared.ErrNotFound
		}
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// UpdatePaymentStatus changes the payment status of an order
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.SetPaymentStatus(ordering.PaymentStatus(req.PaymentStatus)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdatePaymentStatus(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Delete removes a failed order together with its items
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := order.EnsureDeletable(); err != nil {
		return err
	}
	if err := s.orderRepo.DeleteWithItems(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Order deleted", zap.String("order_id", id.String()))
	return nil
}

func (s *OrderService) customerFor(ctx context.Context, principal identity.Principal) (uuid.UUID, bool, error) {
	c, err := s.customers.FindByUserID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return c.ID, true, nil
}

// publish hands pending events to the dispatcher. Failures never reach the caller.
func (s *OrderService) publish(ctx context.Context, order *ordering.Order) {
	events := order.PullDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
