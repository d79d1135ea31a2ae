package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/storefront/internal/domain/customer"
	"github.com/erp/storefront/internal/domain/identity"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileProvisioningHandler creates the customer profile of a newly registered user
type ProfileProvisioningHandler struct {
	repo   customer.Repository
	logger *zap.Logger
}

// NewProfileProvisioningHandler creates the handler
func NewProfileProvisioningHandler(repo customer.Repository, logger *zap.Logger) *ProfileProvisioningHandler {
	return &ProfileProvisioningHandler{repo: repo, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ProfileProvisioningHandler) EventTypes() []string {
	return []string{identity.EventTypeUserRegistered}
}

// Handle creates a bronze customer unless one already exists
func (h *ProfileProvisioningHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	registered, ok := event.(*identity.UserRegisteredEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			identity.EventTypeUserRegistered, event.EventType())
	}
	userID, err := uuid.Parse(registered.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", registered.UserID, err)
	}

	if _, err := h.repo.FindByUserID(ctx, userID); err == nil {
		return nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	c, err := customer.New(userID)
	if err != nil {
		return err
	}
	if err := h.repo.Save(ctx, c); err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
		return err
	}

	h.logger.Info("Customer profile provisioned",
		zap.String("user_id", registered.UserID),
		zap.String("username", registered.Username),
	)
	return nil
}
