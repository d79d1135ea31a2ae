package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/storefront/internal/domain/customer"
	"github.com/erp/storefront/internal/domain/identity"
	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// placeFromCart runs the same steps as the ordering service, inside the unit of work
func placeFromCart(ctx context.Context, uow ordering.UnitOfWork, cartID, userID uuid.UUID) (*ordering.Order, error) {
	var placed *ordering.Order
	err := uow.Execute(ctx, func(tx ordering.PlacementTx) error {
		placed = nil
		if err := tx.LockCart(ctx, cartID); err != nil {
			return err
		}
		lines, err := tx.CartLines(ctx, cartID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ordering.ErrEmptyCart
		}
		customerID, err := tx.CustomerIDForUser(ctx, userID)
		if err != nil {
			return err
		}
		order, err := ordering.PlaceOrder(customerID, lines)
		if err != nil {
			return err
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.ClearCart(ctx, cartID); err != nil {
			return err
		}
		placed = order
		return nil
	})
	return placed, err
}

func seedUser(t *testing.T, db *gorm.DB, username string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username, username+"@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Save(context.Background(), u))
	return u
}

func TestGormPlacementUnitOfWork_PlacesOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	uow := NewGormPlacementUnitOfWork(db, 3)
	carts := NewGormCartRepository(db)
	orders := NewGormOrderRepository(db)

	c := seedCollection(t, db, "Tools")
	hammer := seedProduct(t, db, c.ID, "Hammer", "hammer", "10")
	anvil := seedProduct(t, db, c.ID, "Anvil", "anvil", "5")
	user := seedUser(t, db, "alice")
	shopping := seedCart(t, db)

	_, err := carts.AddItem(ctx, shopping.ID, hammer.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, shopping.ID, anvil.ID, 3)
	require.NoError(t, err)

	placed, err := placeFromCart(ctx, uow, shopping.ID, user.ID)
	require.NoError(t, err)

	t.Run("order is stored with snapshot prices", func(t *testing.T) {
		loaded, err := orders.FindByID(ctx, placed.ID)
		require.NoError(t, err)
		assert.Equal(t, ordering.PaymentStatusPending, loaded.PaymentStatus)
		require.Len(t, loaded.Items, 2)
		assert.True(t, decimal.NewFromInt(35).Equal(loaded.TotalPrice()))
		assert.NotEmpty(t, loaded.Items[0].ProductTitle)
	})

	t.Run("cart is emptied but kept", func(t *testing.T) {
		exists, err := carts.Exists(ctx, shopping.ID)
		require.NoError(t, err)
		assert.True(t, exists)
		items, err := carts.PricedItems(ctx, shopping.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("customer was created for the user", func(t *testing.T) {
		cust, err := NewGormCustomerRepository(db).FindByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, cust.ID, placed.CustomerID)
		assert.Equal(t, customer.MembershipBronze, cust.Membership)
	})

	t.Run("second placement on the emptied cart fails", func(t *testing.T) {
		_, err := placeFromCart(ctx, uow, shopping.ID, user.ID)
		assert.ErrorIs(t, err, ordering.ErrEmptyCart)
	})

	t.Run("missing cart", func(t *testing.T) {
		_, err := placeFromCart(ctx, uow, uuid.New(), user.ID)
		assert.ErrorIs(t, err, ordering.ErrCartNotFound)
	})
}

func TestGormPlacementUnitOfWork_RollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	uow := NewGormPlacementUnitOfWork(db, 1)
	carts := NewGormCartRepository(db)

	c := seedCollection(t, db, "Tools")
	hammer := seedProduct(t, db, c.ID, "Hammer", "hammer", "10")
	user := seedUser(t, db, "bob")
	shopping := seedCart(t, db)
	_, err := carts.AddItem(ctx, shopping.ID, hammer.ID, 1)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = uow.Execute(ctx, func(tx ordering.PlacementTx) error {
		lines, err := tx.CartLines(ctx, shopping.ID)
		require.NoError(t, err)
		customerID, err := tx.CustomerIDForUser(ctx, user.ID)
		require.NoError(t, err)
		order, err := ordering.PlaceOrder(customerID, lines)
		require.NoError(t, err)
		require.NoError(t, tx.InsertOrder(ctx, order))
		require.NoError(t, tx.ClearCart(ctx, shopping.ID))
		return boom
	})
	require.ErrorIs(t, err, boom)

	var orderCount, customerCount int64
	require.NoError(t, db.Model(&models.OrderModel{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.CustomerModel{}).Count(&customerCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, customerCount)

	items, err := carts.PricedItems(ctx, shopping.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestGormPlacementUnitOfWork_RetriesSerializationFailure(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	uow := NewGormPlacementUnitOfWork(db, 3)
	cartID := uuid.New()

	lockQuery := regexp.QuoteMeta(`FOR UPDATE`)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WillReturnError(&pgconn.PgError{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(cartID))
	mock.ExpectCommit()

	calls := 0
	err := uow.Execute(context.Background(), func(tx ordering.PlacementTx) error {
		calls++
		return tx.LockCart(context.Background(), cartID)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	uow := NewGormPlacementUnitOfWork(db, 1)
	carts := NewGormCartRepository(db)
	repo := NewGormOrderRepository(db)

	c := seedCollection(t, db, "Tools")
	hammer := seedProduct(t, db, c.ID, "Hammer", "hammer", "10")
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	place := func(userID uuid.UUID) *ordering.Order {
		shopping := seedCart(t, db)
		_, err := carts.AddItem(ctx, shopping.ID, hammer.ID, 1)
		require.NoError(t, err)
		order, err := placeFromCart(ctx, uow, shopping.ID, userID)
		require.NoError(t, err)
		return order
	}
	aliceOrder := place(alice.ID)
	place(bob.ID)

	t.Run("filters by customer", func(t *testing.T) {
		filter := ordering.OrderFilter{Filter: shared.DefaultFilter(), CustomerID: &aliceOrder.CustomerID}
		orders, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, aliceOrder.ID, orders[0].ID)
		assert.Equal(t, "Hammer", orders[0].Items[0].ProductTitle)

		count, err := repo.Count(ctx, ordering.OrderFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("updates only the payment status", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, aliceOrder.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.SetPaymentStatus(ordering.PaymentStatusFailed))
		require.NoError(t, repo.UpdatePaymentStatus(ctx, loaded))

		reloaded, err := repo.FindByID(ctx, aliceOrder.ID)
		require.NoError(t, err)
		assert.Equal(t, ordering.PaymentStatusFailed, reloaded.PaymentStatus)
		assert.Equal(t, aliceOrder.CustomerID, reloaded.CustomerID)
	})

	t.Run("deletes the order with its items", func(t *testing.T) {
		require.NoError(t, repo.DeleteWithItems(ctx, aliceOrder.ID))
		_, err := repo.FindByID(ctx, aliceOrder.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var items int64
		require.NoError(t, db.Model(&models.OrderItemModel{}).Where("order_id = ?", aliceOrder.ID).Count(&items).Error)
		assert.Zero(t, items)
		assert.ErrorIs(t, repo.DeleteWithItems(ctx, aliceOrder.ID), shared.ErrNotFound)
	})
}

func TestGormCustomerRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewGormCustomerRepository(db)
	user := seedUser(t, db, "carol")

	cust, err := customer.New(user.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, cust))

	t.Run("one customer per user", func(t *testing.T) {
		dup, err := customer.New(user.ID)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("round-trips the profile", func(t *testing.T) {
		phone := "+1 555 0100"
		gold := customer.MembershipGold
		require.NoError(t, cust.Apply(customer.Profile{Phone: &phone, Membership: &gold}))
		require.NoError(t, repo.Save(ctx, cust))

		found, err := repo.FindByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, phone, found.Phone)
		assert.Equal(t, customer.MembershipGold, found.Membership)
		assert.Nil(t, found.BirthDate)
	})

	t.Run("lists and filters by membership", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["membership"] = "gold"
		customers, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, customers, 1)

		filter.Filters["membership"] = "silver"
		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("deletes", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, cust.ID))
		_, err := repo.FindByID(ctx, cust.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
