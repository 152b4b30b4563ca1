package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
)

// fakeBalanceRepo keeps balances in a map keyed by product+warehouse.
type fakeBalanceRepo struct {
	balances map[string]StockBalance
	upserts  int
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]StockBalance)}
}

func balanceKey(productID, warehouseID id.ID) string {
	return productID.String() + "/" + warehouseID.String()
}

func (r *fakeBalanceRepo) GetBalance(ctx context.Context, productID, warehouseID id.ID) (StockBalance, error) {
	if b, ok := r.balances[balanceKey(productID, warehouseID)]; ok {
		return b, nil
	}
	return NewStockBalance(productID, warehouseID), nil
}

func (r *fakeBalanceRepo) GetBalanceForUpdate(ctx context.Context, productID, warehouseID id.ID) (StockBalance, error) {
	return r.GetBalance(ctx, productID, warehouseID)
}

func (r *fakeBalanceRepo) Upsert(ctx context.Context, balance StockBalance) error {
	r.upserts++
	r.balances[balanceKey(balance.ProductID, balance.WarehouseID)] = balance
	return nil
}

func (r *fakeBalanceRepo) List(ctx context.Context, filter BalanceFilter) ([]BalanceRow, error) {
	return nil, nil
}

func (r *fakeBalanceRepo) HasPositiveStock(ctx context.Context, warehouseID id.ID) (bool, error) {
	for _, b := range r.balances {
		if b.WarehouseID == warehouseID && b.Quantity.IsPositive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBalanceRepo) GetLowStock(ctx context.Context, limit int) ([]LowStockRow, error) {
	return nil, nil
}

// passthroughTxManager runs the callback without a real transaction.
type passthroughTxManager struct {
	calls int
}

func (m *passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func TestService_Apply_Receipt(t *testing.T) {
	repo := newFakeBalanceRepo()
	svc := NewService(repo, &passthroughTxManager{})
	ctx := context.Background()

	productID, warehouseID := id.New(), id.New()

	err := svc.Apply(ctx, Effect{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty(5),
		Kind:        EffectReceipt,
	})
	require.NoError(t, err)

	b, _ := repo.GetBalance(ctx, productID, warehouseID)
	assert.Equal(t, qty(5), b.Quantity)
	assert.Equal(t, qty(5), b.AvailableQuantity)
}

func TestService_Apply_ExpenseAgainstMissingRow(t *testing.T) {
	repo := newFakeBalanceRepo()
	svc := NewService(repo, &passthroughTxManager{})

	// No ledger row exists: expense must read as insufficient, not as an error.
	err := svc.Apply(context.Background(), Effect{
		ProductID:   id.New(),
		WarehouseID: id.New(),
		Quantity:    qty(1),
		Kind:        EffectExpense,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Zero(t, repo.upserts)
}

func TestService_Apply_UnknownKind(t *testing.T) {
	repo := newFakeBalanceRepo()
	svc := NewService(repo, &passthroughTxManager{})

	err := svc.Apply(context.Background(), Effect{
		ProductID:   id.New(),
		WarehouseID: id.New(),
		Quantity:    qty(1),
		Kind:        "transfer",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestService_CheckAvailability(t *testing.T) {
	repo := newFakeBalanceRepo()
	txm := &passthroughTxManager{}
	svc := NewService(repo, txm)
	ctx := context.Background()

	productID, warehouseID := id.New(), id.New()
	require.NoError(t, svc.Apply(ctx, Effect{
		ProductID: productID, WarehouseID: warehouseID,
		Quantity: qty(3), Kind: EffectReceipt,
	}))

	assert.NoError(t, svc.CheckAvailability(ctx, productID, warehouseID, qty(3)))
	assert.True(t, apperror.IsInsufficientStock(svc.CheckAvailability(ctx, productID, warehouseID, qty(3.0001))))
}

func TestService_ReserveRelease(t *testing.T) {
	repo := newFakeBalanceRepo()
	txm := &passthroughTxManager{}
	svc := NewService(repo, txm)
	ctx := context.Background()

	productID, warehouseID := id.New(), id.New()
	require.NoError(t, svc.Apply(ctx, Effect{
		ProductID: productID, WarehouseID: warehouseID,
		Quantity: qty(10), Kind: EffectReceipt,
	}))

	require.NoError(t, svc.Reserve(ctx, productID, warehouseID, qty(4)))
	assert.True(t, txm.calls >= 1)

	b, _ := svc.GetBalance(ctx, productID, warehouseID)
	assert.Equal(t, qty(4), b.ReservedQuantity)
	assert.Equal(t, qty(6), b.AvailableQuantity)

	require.NoError(t, svc.Release(ctx, productID, warehouseID, qty(4)))
	b, _ = svc.GetBalance(ctx, productID, warehouseID)
	assert.Equal(t, qty(0), b.ReservedQuantity)
	assert.Equal(t, qty(10), b.AvailableQuantity)
}

func TestService_Reserve_FailureDoesNotPersist(t *testing.T) {
	repo := newFakeBalanceRepo()
	svc := NewService(repo, &passthroughTxManager{})
	ctx := context.Background()

	err := svc.Reserve(ctx, id.New(), id.New(), qty(1))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Zero(t, repo.upserts)
}
