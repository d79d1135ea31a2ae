package handler

import (
	"net/http"
	"testing"

	customerapp "github.com/erp/storefront/internal/application/customer"
	"github.com/erp/storefront/internal/interfaces/http/dto"
	"github.com/erp/storefront/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomers_Me(t *testing.T) {
	s := newTestServer(t)
	alice := s.user(t, "alice", false)

	w := s.do(t, http.MethodGet, "/customers/me", nil, "")
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)

	w = s.do(t, http.MethodGet, "/customers/me", nil, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	me := testutil.DecodeData[customerapp.CustomerResponse](t, w)
	assert.Equal(t, "bronze", me.Membership)

	w = s.do(t, http.MethodPost, "/customers/me", map[string]any{
		"phone":      "555-0100",
		"membership": "gold",
		"user_id":    uuid.New(),
	}, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := testutil.DecodeData[customerapp.CustomerResponse](t, w)
	assert.Equal(t, me.ID, updated.ID)
	assert.Equal(t, me.UserID, updated.UserID, "user_id is not writable through me")
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "gold", updated.Membership)

	w = s.do(t, http.MethodPatch, "/customers/me", map[string]any{"membership": "platinum"}, alice)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
}

func TestCustomers_OpenDirectory(t *testing.T) {
	s := newTestServer(t)
	staff := s.user(t, "admin", true)
	alice := s.user(t, "alice", false)

	w := s.do(t, http.MethodGet, "/customers", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	customers := testutil.DecodeData[[]customerapp.CustomerResponse](t, w)
	require.Len(t, customers, 2)

	id := customers[0].ID.String()
	w = s.do(t, http.MethodGet, "/customers/"+id, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("writes need staff", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/customers/"+id, nil, alice)
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)

		w = s.do(t, http.MethodPut, "/customers/"+id, map[string]any{"phone": "1"}, "")
		testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	})

	t.Run("history is staff only", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/customers/"+id+"/history", nil, alice)
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)

		w = s.do(t, http.MethodGet, "/customers/"+id+"/history", nil, staff)
		require.Equal(t, http.StatusOK, w.Code)
		history := testutil.DecodeData[customerapp.HistoryResponse](t, w)
		assert.Equal(t, "Returning purchase history for customer "+id, history.Message)
		assert.Empty(t, history.Orders)
	})
}

func TestCustomers_ClosedDirectory(t *testing.T) {
	s := newTestServer(t, withClosedDirectory())
	staff := s.user(t, "admin", true)
	alice := s.user(t, "alice", false)

	w := s.do(t, http.MethodGet, "/customers", nil, "")
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)

	w = s.do(t, http.MethodGet, "/customers", nil, alice)
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)

	// staff tokens carry customer:read
	w = s.do(t, http.MethodGet, "/customers", nil, staff)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/customers/me", nil, alice)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCustomers_StaffCreate(t *testing.T) {
	s := newTestServer(t)
	staff := s.user(t, "admin", true)
	s.user(t, "alice", false)

	w := s.do(t, http.MethodPost, "/customers", map[string]any{"user_id": uuid.New()}, staff)
	env := testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "user_id", env.Error.Details[0].Field)
	assert.Equal(t, "User not found", env.Error.Details[0].Message)

	w = s.do(t, http.MethodGet, "/auth/users/me", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	staffID := testutil.DecodeData[struct {
		ID uuid.UUID `json:"id"`
	}](t, w).ID

	// registration already provisioned a profile for the staff user
	w = s.do(t, http.MethodPost, "/customers", map[string]any{"user_id": staffID}, staff)
	testutil.AssertErrorResponse(t, w, http.StatusConflict, dto.ErrCodeAlreadyExists)
}
