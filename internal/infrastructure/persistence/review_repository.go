package persistence

import (
	"context"

	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements catalog.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByProduct lists the reviews of one product
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.Review, error) {
	var reviewModels []models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order(ReviewSort.OrderClause(filter.OrderBy, filter.OrderDir)).
		Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&reviewModels).Error; err != nil {
		return nil, err
	}

	reviews := make([]catalog.Review, len(reviewModels))
	for i := range reviewModels {
		reviews[i] = *reviewModels[i].ToDomain()
	}
	return reviews, nil
}

// CountByProduct counts the reviews of one product
func (r *GormReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindForProduct finds a review only if it belongs to the product
func (r *GormReviewRepository) FindForProduct(ctx context.Context, productID, id uuid.UUID) (*catalog.Review, error) {
	var model models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND id = ?", productID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, review *catalog.Review) error {
	return translateError(r.db.WithContext(ctx).Save(models.ReviewModelFromDomain(review)).Error)
}

// Delete deletes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReviewModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)
