package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type testEvent struct {
	BaseDomainEvent
}

func TestDomainError(t *testing.T) {
	t.Run("plain error uses message", func(t *testing.T) {
		err := NewDomainError("INVALID_TITLE", "Title cannot be empty")
		assert.Equal(t, "Title cannot be empty", err.Error())
		assert.Empty(t, err.Field)
	})

	t.Run("field error carries field and validation code", func(t *testing.T) {
		err := NewFieldError("product_id", "Product not found")
		assert.Equal(t, CodeValidation, err.Code)
		assert.Equal(t, "product_id", err.Field)
		assert.Equal(t, "product_id: Product not found", err.Error())
	})

	t.Run("sentinels survive wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("load product: %w", ErrNotFound)
		assert.True(t, errors.Is(wrapped, ErrNotFound))

		var domainErr *DomainError
		assert.True(t, errors.As(wrapped, &domainErr))
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	agg := NewBaseAggregateRoot()
	assert.NotEqual(t, uuid.Nil, agg.ID)
	assert.Empty(t, agg.GetDomainEvents())

	evt := &testEvent{BaseDomainEvent: NewBaseDomainEvent("test.created", "Test", agg.ID)}
	agg.AddDomainEvent(evt)
	assert.Len(t, agg.GetDomainEvents(), 1)

	pulled := agg.PullDomainEvents()
	assert.Len(t, pulled, 1)
	assert.Equal(t, "test.created", pulled[0].EventType())
	assert.Equal(t, agg.ID, pulled[0].AggregateID())
	assert.Empty(t, agg.GetDomainEvents())
}

func TestNewPaginated(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		pageSize int
		want     int
	}{
		{"exact pages", 20, 10, 2},
		{"partial last page", 21, 10, 3},
		{"empty", 0, 10, 0},
		{"zero page size", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginated([]int{}, tt.total, 1, tt.pageSize)
			assert.Equal(t, tt.want, p.TotalPages)
		})
	}
}

func TestFilter_Offset(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 0, f.Offset())

	f.Page = 3
	assert.Equal(t, 20, f.Offset())

	f.Page = 0
	assert.Equal(t, 0, f.Offset())
}
