package persistence

import (
	"context"

	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCollectionRepository implements catalog.CollectionRepository using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// FindByID finds a collection by its ID
func (r *GormCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	var model models.CollectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all collections matching the filter
func (r *GormCollectionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Collection, error) {
	var collectionModels []models.CollectionModel
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.CollectionModel{}), filter).
		Order(CollectionSort.OrderClause(filter.OrderBy, filter.OrderDir)).
		Scopes(paginate(filter.Page, filter.PageSize))

	if err := query.Find(&collectionModels).Error; err != nil {
		return nil, err
	}

	collections := make([]catalog.Collection, len(collectionModels))
	for i := range collectionModels {
		collections[i] = *collectionModels[i].ToDomain()
	}
	return collections, nil
}

// Count counts collections matching the filter
func (r *GormCollectionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applySearch(r.db.WithContext(ctx).Model(&models.CollectionModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByID checks if a collection exists
func (r *GormCollectionRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CollectionModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountProducts counts products per collection in one grouped query
func (r *GormCollectionRepository) CountProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		CollectionID uuid.UUID
		Count        int64
	}
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select("collection_id, COUNT(*) AS count").
		Where("collection_id IN ?", ids).
		Group("collection_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.CollectionID] = row.Count
	}
	return counts, nil
}

// Save creates or updates a collection
func (r *GormCollectionRepository) Save(ctx context.Context, collection *catalog.Collection) error {
	return translateError(r.db.WithContext(ctx).Save(models.CollectionModelFromDomain(collection)).Error)
}

// Delete deletes a collection. A collection that still has products is delete-protected.
func (r *GormCollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var products int64
		if err := tx.Model(&models.ProductModel{}).
			Where("collection_id = ?", id).
			Count(&products).Error; err != nil {
			return err
		}
		if products > 0 {
			return catalog.ErrCollectionHasProducts
		}

		result := tx.Delete(&models.CollectionModel{}, "id = ?", id)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormCollectionRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	return query
}

var _ catalog.CollectionRepository = (*GormCollectionRepository)(nil)
