package persistence

import (
	"context"
	"testing"

	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productTitles(products []catalog.Product) []string {
	titles := make([]string, len(products))
	for i, p := range products {
		titles[i] = p.Title
	}
	return titles
}

func TestGormProductRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	tools := seedCollection(t, db, "Tools")
	toys := seedCollection(t, db, "Toys")
	seedProduct(t, db, tools.ID, "Hammer", "hammer", "15.00")
	seedProduct(t, db, tools.ID, "Anvil", "anvil", "120.00")
	seedProduct(t, db, toys.ID, "Yo-yo", "yo-yo", "3.50")
	seedProduct(t, db, toys.ID, "Kite 50% off", "kite", "9.99")

	t.Run("default order is title ascending", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Anvil", "Hammer", "Kite 50% off", "Yo-yo"}, productTitles(products))
	})

	t.Run("filters by collection", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{CollectionID: &toys.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"Kite 50% off", "Yo-yo"}, productTitles(products))
	})

	t.Run("price bounds are exclusive", func(t *testing.T) {
		lo := decimal.RequireFromString("3.50")
		hi := decimal.RequireFromString("120")
		products, err := repo.FindAll(ctx, catalog.ProductFilter{MinPrice: &lo, MaxPrice: &hi})
		require.NoError(t, err)
		assert.Equal(t, []string{"Hammer", "Kite 50% off"}, productTitles(products))
	})

	t.Run("search is case-insensitive over title and description", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{Search: "HAMM"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Hammer"}, productTitles(products))

		products, err = repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{Search: "yo description"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Yo-yo"}, productTitles(products))
	})

	t.Run("search treats percent literally", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{Search: "50%"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Kite 50% off"}, productTitles(products))
	})

	t.Run("orders by price descending", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{OrderBy: "unit_price", OrderDir: "desc"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Anvil", "Hammer", "Kite 50% off", "Yo-yo"}, productTitles(products))
	})

	t.Run("paginates and counts", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{Page: 2, PageSize: 3}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Yo-yo"}, productTitles(products))

		count, err := repo.Count(ctx, catalog.ProductFilter{Filter: shared.Filter{Page: 2, PageSize: 3}})
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	c := seedCollection(t, db, "Tools")
	p := seedProduct(t, db, c.ID, "Hammer", "hammer", "15.25")

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", found.Title)
	assert.True(t, decimal.RequireFromString("15.25").Equal(found.UnitPrice))
	assert.Equal(t, c.ID, found.CollectionID)
	assert.Empty(t, found.GetDomainEvents())

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	t.Run("duplicate slug is ErrAlreadyExists", func(t *testing.T) {
		dup, err := catalog.NewProduct(catalog.ProductParams{
			Title: "Other", Slug: "hammer", UnitPrice: decimal.NewFromInt(2), CollectionID: c.ID,
		})
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("ExistsBySlug excludes the product itself", func(t *testing.T) {
		exists, err := repo.ExistsBySlug(ctx, "hammer", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySlug(ctx, "hammer", p.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("FindByIDs", func(t *testing.T) {
		products, err := repo.FindByIDs(ctx, []uuid.UUID{p.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, products, 1)

		products, err = repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	c := seedCollection(t, db, "Tools")
	sold := seedProduct(t, db, c.ID, "Hammer", "hammer", "15")
	unsold := seedProduct(t, db, c.ID, "Anvil", "anvil", "120")

	order, err := ordering.PlaceOrder(uuid.New(), []ordering.Line{{ProductID: sold.ID, Quantity: 1, UnitPrice: sold.UnitPrice}})
	require.NoError(t, err)
	require.NoError(t, db.Create(models.OrderModelFromDomain(order)).Error)
	items := models.OrderItemModelsFromDomain(order)
	require.NoError(t, db.Create(&items).Error)

	t.Run("refuses a product with order items", func(t *testing.T) {
		err := repo.Delete(ctx, sold.ID)
		assert.ErrorIs(t, err, catalog.ErrProductHasOrderItems)

		_, err = repo.FindByID(ctx, sold.ID)
		assert.NoError(t, err)
	})

	t.Run("deletes an unsold product", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, unsold.ID))
		_, err := repo.FindByID(ctx, unsold.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}

func TestGormCollectionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCollectionRepository(db)
	ctx := context.Background()

	tools := seedCollection(t, db, "Tools")
	empty := seedCollection(t, db, "Empty")
	seedProduct(t, db, tools.ID, "Hammer", "hammer", "15")
	seedProduct(t, db, tools.ID, "Anvil", "anvil", "120")

	t.Run("counts products per collection", func(t *testing.T) {
		counts, err := repo.CountProducts(ctx, []uuid.UUID{tools.ID, empty.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[tools.ID])
		_, present := counts[empty.ID]
		assert.False(t, present)
	})

	t.Run("lists by title", func(t *testing.T) {
		collections, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, collections, 2)
		assert.Equal(t, "Empty", collections[0].Title)
	})

	t.Run("refuses to delete a collection with products", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, tools.ID), catalog.ErrCollectionHasProducts)
		exists, err := repo.ExistsByID(ctx, tools.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("deletes an empty collection", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, empty.ID))
		assert.ErrorIs(t, repo.Delete(ctx, empty.ID), shared.ErrNotFound)
	})
}

func TestGormReviewRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReviewRepository(db)
	ctx := context.Background()

	c := seedCollection(t, db, "Tools")
	hammer := seedProduct(t, db, c.ID, "Hammer", "hammer", "15")
	anvil := seedProduct(t, db, c.ID, "Anvil", "anvil", "120")

	review, err := catalog.NewReview(hammer.ID, "Ann", "Solid")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, review))

	t.Run("finds the review under its product", func(t *testing.T) {
		found, err := repo.FindForProduct(ctx, hammer.ID, review.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann", found.Name)
	})

	t.Run("review under another product is not found", func(t *testing.T) {
		_, err := repo.FindForProduct(ctx, anvil.ID, review.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists and counts per product", func(t *testing.T) {
		reviews, err := repo.FindByProduct(ctx, anvil.ID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, reviews)

		count, err := repo.CountByProduct(ctx, hammer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("deletes", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, review.ID))
		assert.ErrorIs(t, repo.Delete(ctx, review.ID), shared.ErrNotFound)
	})
}
