package handler

import (
	"net/http"
	"testing"

	cartapp "github.com/erp/storefront/internal/application/cart"
	"github.com/erp/storefront/internal/interfaces/http/dto"
	"github.com/erp/storefront/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarts_AnonymousLifecycle(t *testing.T) {
	s := newTestServer(t)
	staff := s.user(t, "admin", true)
	collectionID := s.createCollection(t, staff, "Kitchen")
	kettle := s.createProduct(t, staff, collectionID, "kettle", "12.50")

	w := s.do(t, http.MethodPost, "/carts", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	created := testutil.DecodeData[cartapp.CartResponse](t, w)
	assert.Empty(t, created.Items)
	assert.True(t, created.TotalPrice.IsZero())

	cartPath := "/carts/" + created.ID.String()

	// the same product twice merges into one line
	s.addItem(t, created.ID, kettle, 1)
	w = s.do(t, http.MethodPost, cartPath+"/items", map[string]any{"product_id": kettle, "quantity": 2}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	written := testutil.DecodeData[cartapp.WrittenItemResponse](t, w)
	assert.Equal(t, 3, written.Quantity)
	assert.Equal(t, kettle, written.ProductID)

	w = s.do(t, http.MethodGet, cartPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	cart := testutil.DecodeData[cartapp.CartResponse](t, w)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].TotalPrice.Equal(decimal.RequireFromString("37.50")), cart.Items[0].TotalPrice.String())
	assert.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("37.50")))

	itemPath := cartPath + "/items/" + written.ID.String()

	w = s.do(t, http.MethodPatch, itemPath, map[string]any{"quantity": 1}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, testutil.DecodeData[cartapp.WrittenItemResponse](t, w).Quantity)

	w = s.do(t, http.MethodGet, itemPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product kettle", testutil.DecodeData[cartapp.ItemResponse](t, w).Product.Title)

	w = s.do(t, http.MethodDelete, itemPath, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, cartPath+"/items", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, testutil.DecodeData[[]cartapp.ItemResponse](t, w))

	w = s.do(t, http.MethodDelete, cartPath, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, cartPath, nil, "")
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestCarts_ItemErrors(t *testing.T) {
	s := newTestServer(t)
	staff := s.user(t, "admin", true)
	collectionID := s.createCollection(t, staff, "Garden")
	hose := s.createProduct(t, staff, collectionID, "hose", "8")

	first := s.createCart(t)
	second := s.createCart(t)

	t.Run("unknown product is a field error", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/carts/"+first.String()+"/items", map[string]any{"product_id": uuid.New(), "quantity": 1}, "")
		env := testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "product_id", env.Error.Details[0].Field)
		assert.Equal(t, "Product not found", env.Error.Details[0].Message)
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/carts/"+first.String()+"/items", map[string]any{"product_id": hose, "quantity": 0}, "")
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("quantity above the line limit is rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/carts/"+first.String()+"/items", map[string]any{"product_id": hose, "quantity": 3000000000}, "")
		env := testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		require.NotEmpty(t, env.Error.Details)
		assert.Equal(t, "quantity", env.Error.Details[0].Field)
	})

	t.Run("merge beyond the line limit is a field error", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/carts/"+second.String()+"/items", map[string]any{"product_id": hose, "quantity": 32000}, "")
		require.Equal(t, http.StatusCreated, w.Code)

		w = s.do(t, http.MethodPost, "/carts/"+second.String()+"/items", map[string]any{"product_id": hose, "quantity": 1000}, "")
		env := testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "quantity", env.Error.Details[0].Field)

		w = s.do(t, http.MethodGet, "/carts/"+second.String(), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		body := testutil.DecodeData[cartapp.CartResponse](t, w)
		require.Len(t, body.Items, 1)
		assert.Equal(t, 32000, body.Items[0].Quantity)
	})

	t.Run("unknown cart", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/carts/"+uuid.NewString()+"/items", map[string]any{"product_id": hose, "quantity": 1}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("item of another cart is not found", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/carts/"+first.String()+"/items", map[string]any{"product_id": hose, "quantity": 1}, "")
		require.Equal(t, http.StatusCreated, w.Code)
		item := testutil.DecodeData[cartapp.WrittenItemResponse](t, w)

		w = s.do(t, http.MethodGet, "/carts/"+second.String()+"/items/"+item.ID.String(), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
