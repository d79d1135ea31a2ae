package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("connection reset")
	undefinedTable := &pgconn.PgError{Code: "42P01"}

	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{"nil stays nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, shared.ErrNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, shared.ErrAlreadyExists},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, shared.ErrDeleteProtected},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, shared.ErrAlreadyExists},
		{"wrapped postgres foreign key violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), shared.ErrDeleteProtected},
		{"unrelated postgres error", undefinedTable, undefinedTable},
		{"unknown error passes through", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, translateError(tt.input))
		})
	}
}

func TestWithRetry(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001"}
	deadlock := &pgconn.PgError{Code: "40P01"}

	t.Run("retries serialization failures until success", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), 3, func() error {
			calls++
			if calls < 3 {
				return serialization
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), 3, func() error {
			calls++
			return deadlock
		})
		assert.ErrorIs(t, err, deadlock)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), 3, func() error {
			calls++
			return shared.ErrNotFound
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := WithRetry(ctx, 3, func() error {
			calls++
			return serialization
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("non-positive attempts still runs once", func(t *testing.T) {
		calls := 0
		_ = WithRetry(context.Background(), 0, func() error {
			calls++
			return nil
		})
		assert.Equal(t, 1, calls)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"})))
	assert.True(t, IsRetryable(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("plain")))
}
