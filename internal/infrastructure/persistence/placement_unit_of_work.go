package persistence

import (
	"context"
	"errors"

	"github.com/erp/storefront/internal/domain/customer"
	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/erp/storefront/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderItemBatchSize bounds the rows per INSERT when writing order items
const orderItemBatchSize = 100

// GormPlacementUnitOfWork runs order placement in one database transaction.
// Transactions aborted by serialization failures or deadlocks are retried.
type GormPlacementUnitOfWork struct {
	db       *gorm.DB
	attempts int
}

// NewGormPlacementUnitOfWork creates a unit of work retrying up to attempts times
func NewGormPlacementUnitOfWork(db *gorm.DB, attempts int) *GormPlacementUnitOfWork {
	if attempts < 1 {
		attempts = 1
	}
	return &GormPlacementUnitOfWork{db: db, attempts: attempts}
}

// Execute runs fn inside a transaction. fn may run more than once and must not
// keep state from a failed attempt.
func (u *GormPlacementUnitOfWork) Execute(ctx context.Context, fn func(tx ordering.PlacementTx) error) error {
	return WithRetry(ctx, u.attempts, func() error {
		return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&gormPlacementTx{tx: tx})
		})
	})
}

type gormPlacementTx struct {
	tx *gorm.DB
}

func (t *gormPlacementTx) LockCart(ctx context.Context, cartID uuid.UUID) error {
	var model models.CartModel
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&model, "id = ?", cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ordering.ErrCartNotFound
	}
	return err
}

func (t *gormPlacementTx) CartLines(ctx context.Context, cartID uuid.UUID) ([]ordering.Line, error) {
	var rows []struct {
		ProductID uuid.UUID
		Quantity  int
		UnitPrice decimal.Decimal
	}
	if err := t.tx.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.product_id, cart_items.quantity, products.unit_price").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.created_at ASC, cart_items.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]ordering.Line, len(rows))
	for i, row := range rows {
		lines[i] = ordering.Line{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
		}
	}
	return lines, nil
}

// CustomerIDForUser inserts the customer with ON CONFLICT DO NOTHING so a
// concurrent first placement by the same user cannot abort the transaction.
func (t *gormPlacementTx) CustomerIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var existing models.CustomerModel
	err := t.tx.WithContext(ctx).Select("id").First(&existing, "user_id = ?", userID).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	c, err := customer.New(userID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := t.tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(models.CustomerModelFromDomain(c)).Error; err != nil {
		return uuid.Nil, translateError(err)
	}

	if err := t.tx.WithContext(ctx).Select("id").First(&existing, "user_id = ?", userID).Error; err != nil {
		return uuid.Nil, translateError(err)
	}
	return existing.ID, nil
}

func (t *gormPlacementTx) InsertOrder(ctx context.Context, order *ordering.Order) error {
	db := t.tx.WithContext(ctx).Omit(clause.Associations)
	if err := db.Create(models.OrderModelFromDomain(order)).Error; err != nil {
		return translateError(err)
	}

	items := models.OrderItemModelsFromDomain(order)
	if len(items) == 0 {
		return nil
	}
	return translateError(db.CreateInBatches(&items, orderItemBatchSize).Error)
}

func (t *gormPlacementTx) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	return t.tx.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItemModel{}).Error
}

var _ ordering.UnitOfWork = (*GormPlacementUnitOfWork)(nil)
