// Package customer implements the customer directory use cases.
package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/storefront/internal/domain/customer"
	"github.com/erp/storefront/internal/domain/identity"
	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUserNotFound is returned when a customer is created for an unknown user
var ErrUserNotFound = shared.NewFieldError("user_id", "User not found")

// ErrCustomerExists is returned when the user already has a customer
var ErrCustomerExists = shared.NewDomainError("ALREADY_EXISTS", "Customer for this user already exists")

// CustomerService handles customer profiles
type CustomerService struct {
	customerRepo customer.Repository
	userRepo     identity.UserRepository
	orderRepo    ordering.OrderRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo customer.Repository,
	userRepo identity.UserRepository,
	orderRepo ordering.OrderRepository,
	logger *zap.Logger,
) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		userRepo:     userRepo,
		orderRepo:    orderRepo,
		logger:       logger,
	}
}

// Me returns the caller's customer, creating it on first access
func (s *CustomerService) Me(ctx context.Context, userID uuid.UUID) (*CustomerResponse, error) {
	c, err := s.ensureForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// UpdateMe changes the caller's own profile
func (s *CustomerService) UpdateMe(ctx context.Context, userID uuid.UUID, req ProfileRequest) (*CustomerResponse, error) {
	c, err := s.ensureForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, c, req)
}

// List retrieves customers with pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	if filter.Membership != "" {
		domainFilter.Filters["membership"] = filter.Membership
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Create attaches a customer profile to an existing user
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile, err := req.profile()
	if err != nil {
		return nil, err
	}
	c, err := customer.New(req.UserID)
	if err != nil {
		return nil, err
	}
	if err := c.Apply(profile); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrCustomerExists
		}
		return nil, err
	}

	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Update changes the profile fields present in the request. user_id never changes.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req ProfileRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, c, req)
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Customer deleted", zap.String("customer_id", id.String()))
	return nil
}

// History returns the customer's orders, newest first
func (s *CustomerService) History(ctx context.Context, id uuid.UUID) (*HistoryResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAll(ctx, ordering.OrderFilter{
		Filter:     shared.Filter{OrderBy: "placed_at", OrderDir: "desc"},
		CustomerID: &id,
	})
	if err != nil {
		return nil, err
	}

	history := make([]HistoryOrder, len(orders))
	for i := range orders {
		history[i] = toHistoryOrder(&orders[i])
	}
	return &HistoryResponse{
		Message: fmt.Sprintf("Returning purchase history for customer %s", id),
		Orders:  history,
	}, nil
}

func (s *CustomerService) apply(ctx context.Context, c *customer.Customer, req ProfileRequest) (*CustomerResponse, error) {
	profile, err := req.profile()
	if err != nil {
		return nil, err
	}
	if err := c.Apply(profile); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// ensureForUser loads the user's customer or creates one.
// A concurrent creator wins the unique index and its row is re-read.
func (s *CustomerService) ensureForUser(ctx context.Context, userID uuid.UUID) (*customer.Customer, error) {
	c, err := s.customerRepo.FindByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	c, err = customer.New(userID)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return s.customerRepo.FindByUserID(ctx, userID)
		}
		return nil, err
	}
	s.logger.Info("Customer provisioned",
		zap.String("customer_id", c.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return c, nil
}
