package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

func qty(v float64) types.Quantity {
	return types.NewQuantityFromFloat64(v)
}

func TestStockBalance_ApplyReceipt(t *testing.T) {
	now := time.Now().UTC()
	b := NewStockBalance(id.New(), id.New())

	require.NoError(t, b.ApplyReceipt(qty(10), now))
	assert.Equal(t, qty(10), b.Quantity)
	assert.Equal(t, qty(10), b.AvailableQuantity)
	assert.Equal(t, now, b.LastUpdated)

	require.NoError(t, b.ApplyReceipt(qty(2.5), now))
	assert.Equal(t, qty(12.5), b.Quantity)
	assert.Equal(t, qty(12.5), b.AvailableQuantity)
}

func TestStockBalance_ApplyReceipt_RejectsNonPositive(t *testing.T) {
	now := time.Now().UTC()
	b := NewStockBalance(id.New(), id.New())

	assert.True(t, apperror.IsValidation(b.ApplyReceipt(qty(0), now)))
	assert.True(t, apperror.IsValidation(b.ApplyReceipt(qty(-1), now)))
	assert.Equal(t, qty(0), b.Quantity)
}

func TestStockBalance_ApplyExpense(t *testing.T) {
	now := time.Now().UTC()
	b := NewStockBalance(id.New(), id.New())
	require.NoError(t, b.ApplyReceipt(qty(10), now))

	require.NoError(t, b.ApplyExpense(qty(4), now))
	assert.Equal(t, qty(6), b.Quantity)
	assert.Equal(t, qty(6), b.AvailableQuantity)

	// Draining to exactly zero is fine.
	require.NoError(t, b.ApplyExpense(qty(6), now))
	assert.Equal(t, qty(0), b.Quantity)

	// One more unit is not.
	err := b.ApplyExpense(qty(1), now)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestStockBalance_ExpenseHonorsReservations(t *testing.T) {
	now := time.Now().UTC()
	b := NewStockBalance(id.New(), id.New())
	require.NoError(t, b.ApplyReceipt(qty(10), now))
	require.NoError(t, b.Reserve(qty(7), now))

	// 10 on hand but only 3 available.
	err := b.ApplyExpense(qty(5), now)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	require.NoError(t, b.ApplyExpense(qty(3), now))
	assert.Equal(t, qty(7), b.Quantity)
	assert.Equal(t, qty(0), b.AvailableQuantity)
}

func TestStockBalance_ReserveRelease(t *testing.T) {
	now := time.Now().UTC()
	b := NewStockBalance(id.New(), id.New())
	require.NoError(t, b.ApplyReceipt(qty(10), now))

	require.NoError(t, b.Reserve(qty(4), now))
	assert.Equal(t, qty(10), b.Quantity)
	assert.Equal(t, qty(4), b.ReservedQuantity)
	assert.Equal(t, qty(6), b.AvailableQuantity)

	// Cannot reserve beyond what is available.
	assert.True(t, apperror.IsInsufficientStock(b.Reserve(qty(7), now)))

	// Cannot release more than is reserved.
	assert.True(t, apperror.IsInvalidState(b.Release(qty(5), now)))

	require.NoError(t, b.Release(qty(4), now))
	assert.Equal(t, qty(0), b.ReservedQuantity)
	assert.Equal(t, qty(10), b.AvailableQuantity)
}

func TestStockBalance_AvailableAlwaysDerived(t *testing.T) {
	now := time.Now().UTC()
	b := NewStockBalance(id.New(), id.New())

	// Even a corrupted available value is fixed by the next mutation.
	b.Quantity = qty(100)
	b.AvailableQuantity = qty(999)

	require.NoError(t, b.Reserve(qty(10), now))
	assert.Equal(t, qty(90), b.AvailableQuantity)
}
