package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/storefront/internal/domain/cart"
	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/erp/storefront/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with every table migrated.
// A single connection keeps the database alive and shared by all queries.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// newMockGormDB wraps sqlmock with the postgres dialector to assert SQL shape
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func seedCollection(t *testing.T, db *gorm.DB, title string) *catalog.Collection {
	t.Helper()
	c, err := catalog.NewCollection(title)
	require.NoError(t, err)
	require.NoError(t, NewGormCollectionRepository(db).Save(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, collectionID uuid.UUID, title, slug, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductParams{
		Title:        title,
		Description:  title + " description",
		Slug:         slug,
		Inventory:    10,
		UnitPrice:    decimal.RequireFromString(price),
		CollectionID: collectionID,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func seedCart(t *testing.T, db *gorm.DB) *cart.Cart {
	t.Helper()
	c := cart.New()
	require.NoError(t, NewGormCartRepository(db).Create(context.Background(), c))
	return c
}
