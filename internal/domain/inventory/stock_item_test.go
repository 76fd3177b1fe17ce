package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resto/backend/internal/domain/shared"
)

func newTestStockItem(t *testing.T, onHand float64, allowNegative bool) *StockItem {
	t.Helper()
	item, err := NewStockItem(uuid.New(), uuid.New(), allowNegative)
	require.NoError(t, err)
	item.OnHand = decimal.NewFromFloat(onHand)
	item.ClearDomainEvents()
	return item
}

func TestNewStockItem(t *testing.T) {
	t.Run("creates item with zero stock", func(t *testing.T) {
		productID := uuid.New()
		branchID := uuid.New()

		item, err := NewStockItem(productID, branchID, false)
		require.NoError(t, err)

		assert.Equal(t, productID, item.ProductID)
		assert.Equal(t, branchID, item.BranchID)
		assert.True(t, item.OnHand.IsZero())
		assert.False(t, item.AllowNegative)
		assert.False(t, item.HasStock())
	})

	t.Run("fails with empty product ID", func(t *testing.T) {
		_, err := NewStockItem(uuid.Nil, uuid.New(), false)
		require.Error(t, err)
	})

	t.Run("fails with empty branch ID", func(t *testing.T) {
		_, err := NewStockItem(uuid.New(), uuid.Nil, false)
		require.Error(t, err)
	})
}

func TestStockItem_Deduct(t *testing.T) {
	t.Run("reduces on-hand stock", func(t *testing.T) {
		item := newTestStockItem(t, 10, false)

		require.NoError(t, item.Deduct(decimal.NewFromInt(3)))

		assert.Equal(t, "7", item.OnHand.String())

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockDeducted, events[0].EventType())
	})

	t.Run("rejects deduction below zero", func(t *testing.T) {
		item := newTestStockItem(t, 2, false)

		err := item.Deduct(decimal.NewFromInt(3))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, "2", item.OnHand.String())
	})

	t.Run("allows negative stock when configured", func(t *testing.T) {
		item := newTestStockItem(t, 2, true)

		require.NoError(t, item.Deduct(decimal.NewFromInt(5)))
		assert.Equal(t, "-3", item.OnHand.String())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		item := newTestStockItem(t, 10, false)
		require.Error(t, item.Deduct(decimal.Zero))
		require.Error(t, item.Deduct(decimal.NewFromInt(-1)))
	})
}

func TestStockItem_Restore(t *testing.T) {
	t.Run("returns deducted stock", func(t *testing.T) {
		item := newTestStockItem(t, 7, false)

		require.NoError(t, item.Restore(decimal.NewFromInt(3)))

		assert.Equal(t, "10", item.OnHand.String())

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockRestored, events[0].EventType())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		item := newTestStockItem(t, 7, false)
		require.Error(t, item.Restore(decimal.Zero))
	})
}

func TestStockItem_Adjust(t *testing.T) {
	t.Run("sets on-hand to the counted quantity", func(t *testing.T) {
		item := newTestStockItem(t, 10, false)

		oldStock, err := item.Adjust(decimal.NewFromInt(8), "spoilage")
		require.NoError(t, err)

		assert.Equal(t, "10", oldStock.String())
		assert.Equal(t, "8", item.OnHand.String())

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockAdjusted, events[0].EventType())
	})

	t.Run("requires a reason", func(t *testing.T) {
		item := newTestStockItem(t, 10, false)
		_, err := item.Adjust(decimal.NewFromInt(8), "")
		require.Error(t, err)
	})

	t.Run("rejects negative count unless negatives allowed", func(t *testing.T) {
		item := newTestStockItem(t, 10, false)
		_, err := item.Adjust(decimal.NewFromInt(-1), "recount")
		require.Error(t, err)

		tracked := newTestStockItem(t, 10, true)
		_, err = tracked.Adjust(decimal.NewFromInt(-1), "recount")
		require.NoError(t, err)
	})
}

func TestStockItem_CanFulfill(t *testing.T) {
	item := newTestStockItem(t, 5, false)
	assert.True(t, item.CanFulfill(decimal.NewFromInt(5)))
	assert.False(t, item.CanFulfill(decimal.NewFromInt(6)))

	untracked := newTestStockItem(t, 0, true)
	assert.True(t, untracked.CanFulfill(decimal.NewFromInt(100)))
}
