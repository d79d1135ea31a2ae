package persistence

import (
	"context"
	"errors"

	"github.com/erp/storefront/internal/domain/cart"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// addItemAttempts covers one lost race on the (cart_id, product_id) unique index
const addItemAttempts = 2

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Create inserts a new cart
func (r *GormCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	return translateError(r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(models.CartModelFromDomain(c)).Error)
}

// Exists checks if a cart exists
func (r *GormCartRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CartModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID loads a cart with its items
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Delete removes the cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CartModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// PricedItems returns the cart's items with their product's current title and price
func (r *GormCartRepository) PricedItems(ctx context.Context, cartID uuid.UUID) ([]cart.Priced, error) {
	var rows []models.PricedCartItemRow
	if err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.*, products.title AS title, products.unit_price AS unit_price").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.created_at ASC, cart_items.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]cart.Priced, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// FindItem finds an item only if it belongs to the cart
func (r *GormCartRepository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*cart.Item, error) {
	var model models.CartItemModel
	if err := r.db.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// AddItem merges quantity into the cart's line for the product.
// The existing line is read with FOR UPDATE so concurrent adds serialize;
// a concurrent first insert loses on the unique index and is retried as an update.
func (r *GormCartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*cart.Item, error) {
	if err := cart.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	var (
		result *cart.Item
		err    error
	)
	for attempt := 0; attempt < addItemAttempts; attempt++ {
		result, err = r.addItemOnce(ctx, cartID, productID, quantity)
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return result, err
		}
	}
	return nil, err
}

func (r *GormCartRepository) addItemOnce(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*cart.Item, error) {
	var item *cart.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var carts int64
		if err := tx.Model(&models.CartModel{}).Where("id = ?", cartID).Count(&carts).Error; err != nil {
			return err
		}
		if carts == 0 {
			return shared.ErrNotFound
		}

		var products int64
		if err := tx.Model(&models.ProductModel{}).Where("id = ?", productID).Count(&products).Error; err != nil {
			return err
		}
		if products == 0 {
			return cart.ErrProductNotFound
		}

		var existing models.CartItemModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			First(&existing).Error
		switch {
		case err == nil:
			item = existing.ToDomain()
			if err := item.Add(quantity); err != nil {
				return err
			}
			return tx.Model(&models.CartItemModel{}).
				Where("id = ?", item.ID).
				Updates(map[string]any{"quantity": item.Quantity, "updated_at": item.UpdatedAt}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			item, err = cart.NewItem(cartID, productID, quantity)
			if err != nil {
				return err
			}
			return translateError(tx.Create(models.CartItemModelFromDomain(item)).Error)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SaveItem persists an item's quantity
func (r *GormCartRepository) SaveItem(ctx context.Context, item *cart.Item) error {
	result := r.db.WithContext(ctx).Model(&models.CartItemModel{}).
		Where("cart_id = ? AND id = ?", item.CartID, item.ID).
		Updates(map[string]any{"quantity": item.Quantity, "updated_at": item.UpdatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteItem removes an item only if it belongs to the cart
func (r *GormCartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CartItemModel{}, "cart_id = ? AND id = ?", cartID, itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ cart.Repository = (*GormCartRepository)(nil)
