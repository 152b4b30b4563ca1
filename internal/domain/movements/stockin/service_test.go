package stockin

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	appctx "stockyard/internal/core/context"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/refnum"
	"stockyard/internal/core/types"
	"stockyard/internal/domain"
	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/domain/movements"
	"stockyard/internal/domain/workflow"
)

// --- fakes ---

type fakeRepo struct {
	batches map[id.ID]Batch
	lines   map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		batches: make(map[id.ID]Batch),
		lines:   make(map[id.ID][]Line),
	}
}

func (r *fakeRepo) Create(ctx context.Context, batch *Batch) error {
	r.batches[batch.ID] = *batch
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, batchID id.ID) (*Batch, error) {
	b, ok := r.batches[batchID]
	if !ok {
		return nil, apperror.NewNotFound("stock_in", batchID.String())
	}
	cp := b
	return &cp, nil
}

func (r *fakeRepo) GetByReference(ctx context.Context, reference string) (*Batch, error) {
	for _, b := range r.batches {
		if b.ReferenceNumber == reference {
			cp := b
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("stock_in", reference)
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, batchID id.ID) (*Batch, error) {
	return r.GetByID(ctx, batchID)
}

// Update mirrors the SQL contract: the write only lands when the caller
// holds the version the row was read with, and the stored version bumps.
func (r *fakeRepo) Update(ctx context.Context, batch *Batch) error {
	stored, ok := r.batches[batch.ID]
	if !ok {
		return apperror.NewNotFound("stock_in", batch.ID.String())
	}
	if stored.Version != batch.Version {
		return apperror.NewConcurrentModification("stock_in_batches", batch.ID)
	}
	cp := *batch
	cp.Version = stored.Version + 1
	r.batches[batch.ID] = cp
	return nil
}

func (r *fakeRepo) ForceDelete(ctx context.Context, batchID id.ID) error {
	delete(r.batches, batchID)
	delete(r.lines, batchID)
	return nil
}

func (r *fakeRepo) GetLines(ctx context.Context, batchID id.ID) ([]Line, error) {
	return r.lines[batchID], nil
}

func (r *fakeRepo) SaveLines(ctx context.Context, batchID id.ID, lines []Line) error {
	r.lines[batchID] = append([]Line(nil), lines...)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter movements.ListFilter) (domain.ListResult[*Batch], error) {
	var items []*Batch
	for _, b := range r.batches {
		if b.IsTrashed() != filter.OnlyTrashed {
			continue
		}
		cp := b
		items = append(items, &cp)
	}
	return domain.ListResult[*Batch]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeRepo) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	for _, lines := range r.lines {
		for _, line := range lines {
			if line.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeRepo) GetStatistics(ctx context.Context) (movements.Statistics, error) {
	var stats movements.Statistics
	for _, b := range r.batches {
		stats.TotalCount++
		switch b.Status {
		case entity.StatusPending:
			stats.PendingCount++
		case entity.StatusApproved:
			stats.ApprovedCount++
		case entity.StatusRejected:
			stats.RejectedCount++
		}
	}
	return stats, nil
}

type fakeWarehouseRepo struct {
	warehouse.Repository
	items map[id.ID]*warehouse.Warehouse
}

func (r *fakeWarehouseRepo) GetByID(ctx context.Context, entityID id.ID) (*warehouse.Warehouse, error) {
	if w, ok := r.items[entityID]; ok {
		return w, nil
	}
	return nil, apperror.NewNotFound("warehouse", entityID.String())
}

type fakeProductRepo struct {
	product.Repository
	items map[id.ID]*product.Product
}

func (r *fakeProductRepo) GetByID(ctx context.Context, entityID id.ID) (*product.Product, error) {
	if p, ok := r.items[entityID]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("product", entityID.String())
}

type fakeBalanceRepo struct {
	balances map[string]ledger.StockBalance
}

func balanceKey(productID, warehouseID id.ID) string {
	return productID.String() + "/" + warehouseID.String()
}

func (r *fakeBalanceRepo) GetBalance(ctx context.Context, productID, warehouseID id.ID) (ledger.StockBalance, error) {
	if b, ok := r.balances[balanceKey(productID, warehouseID)]; ok {
		return b, nil
	}
	return ledger.NewStockBalance(productID, warehouseID), nil
}

func (r *fakeBalanceRepo) GetBalanceForUpdate(ctx context.Context, productID, warehouseID id.ID) (ledger.StockBalance, error) {
	return r.GetBalance(ctx, productID, warehouseID)
}

func (r *fakeBalanceRepo) Upsert(ctx context.Context, balance ledger.StockBalance) error {
	r.balances[balanceKey(balance.ProductID, balance.WarehouseID)] = balance
	return nil
}

func (r *fakeBalanceRepo) List(ctx context.Context, filter ledger.BalanceFilter) ([]ledger.BalanceRow, error) {
	return nil, nil
}

func (r *fakeBalanceRepo) HasPositiveStock(ctx context.Context, warehouseID id.ID) (bool, error) {
	return false, nil
}

func (r *fakeBalanceRepo) GetLowStock(ctx context.Context, limit int) ([]ledger.LowStockRow, error) {
	return nil, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- harness ---

type testEnv struct {
	svc         *Service
	repo        *fakeRepo
	balances    *fakeBalanceRepo
	products    *fakeProductRepo
	warehouseID id.ID
	productID   id.ID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	wh := warehouse.NewWarehouse("MAIN", "Main Warehouse")
	p := product.NewProduct("SKU-1", "Widget", id.New(), id.New())

	repo := newFakeRepo()
	balances := &fakeBalanceRepo{balances: make(map[string]ledger.StockBalance)}
	products := &fakeProductRepo{items: map[id.ID]*product.Product{p.ID: p}}
	txm := passthroughTxManager{}

	ledgerSvc := ledger.NewService(balances, txm)
	engine := workflow.NewEngine(ledgerSvc, txm, nil)
	validator := movements.NewRefValidator(
		&fakeWarehouseRepo{items: map[id.ID]*warehouse.Warehouse{wh.ID: wh}},
		products,
	)

	return &testEnv{
		svc:         NewService(repo, &refnum.MockAllocator{}, validator, engine, txm, nil),
		repo:        repo,
		balances:    balances,
		products:    products,
		warehouseID: wh.ID,
		productID:   p.ID,
	}
}

func userCtx(userID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: userID})
}

func (e *testEnv) newBatch(qty float64) *Batch {
	batch := NewBatch(e.warehouseID, "Acme Supplies")
	batch.AddLine(e.productID, types.NewQuantityFromFloat64(qty), types.MustMoney("12.50"))
	return batch
}

// --- tests ---

func TestService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(ctx, batch))

	assert.True(t, strings.HasPrefix(batch.ReferenceNumber, "SI-"), batch.ReferenceNumber)
	assert.Equal(t, entity.StatusPending, batch.Status)
	assert.Equal(t, "user-1", batch.CreatedBy)

	stored, err := env.svc.GetByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 1)
	assert.Equal(t, types.NewQuantityFromFloat64(5), stored.TotalQuantity)
}

func TestService_Create_BackdatedBatch(t *testing.T) {
	env := newTestEnv(t)

	batch := env.newBatch(5)
	batch.Date = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.svc.Create(userCtx("user-1"), batch))

	// The reference carries the creation date, not the business date.
	today := time.Now().UTC().Format("20060102")
	assert.Equal(t, "SI-"+today+"-0001", batch.ReferenceNumber)
}

func TestService_Create_UnknownWarehouse(t *testing.T) {
	env := newTestEnv(t)

	batch := NewBatch(id.New(), "Acme Supplies")
	batch.AddLine(env.productID, types.NewQuantityFromFloat64(1), types.Zero())

	err := env.svc.Create(userCtx("user-1"), batch)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Create_InactiveProduct(t *testing.T) {
	env := newTestEnv(t)

	p := product.NewProduct("SKU-2", "Retired", id.New(), id.New())
	p.IsActive = false
	env.products.items[p.ID] = p

	batch := env.newBatch(1)
	batch.Lines[0].ProductID = p.ID

	err := env.svc.Create(userCtx("user-1"), batch)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestService_Create_NoLines(t *testing.T) {
	env := newTestEnv(t)

	batch := NewBatch(env.warehouseID, "Acme Supplies")
	err := env.svc.Create(userCtx("user-1"), batch)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestService_Approve(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("manager-1")

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(ctx, batch))

	approved, err := env.svc.Approve(ctx, batch.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "manager-1", *approved.ApprovedBy)

	// The ledger picked up the receipt.
	b, _ := env.balances.GetBalance(ctx, env.productID, env.warehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(5), b.Quantity)
	assert.Equal(t, types.NewQuantityFromFloat64(5), b.AvailableQuantity)
}

func TestService_Approve_Twice(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("manager-1")

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(ctx, batch))
	_, err := env.svc.Approve(ctx, batch.ID)
	require.NoError(t, err)

	_, err = env.svc.Approve(ctx, batch.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))

	// Ledger was not touched a second time.
	b, _ := env.balances.GetBalance(ctx, env.productID, env.warehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(5), b.Quantity)
}

func TestService_Approve_WithoutUser(t *testing.T) {
	env := newTestEnv(t)

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(userCtx("user-1"), batch))

	_, err := env.svc.Approve(context.Background(), batch.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestService_Reject(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("manager-1")

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(ctx, batch))

	rejected, err := env.svc.Reject(ctx, batch.ID, "damaged goods")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "damaged goods", *rejected.RejectionReason)

	// A rejection never moves stock.
	b, _ := env.balances.GetBalance(ctx, env.productID, env.warehouseID)
	assert.True(t, b.Quantity.IsZero())
}

func TestService_Reject_RequiresReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("manager-1")

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(ctx, batch))

	_, err := env.svc.Reject(ctx, batch.ID, "")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestService_Update_ReplacesLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(ctx, batch))
	reference := batch.ReferenceNumber

	batch.ReplaceLines([]movements.LineInput{
		{ProductID: env.productID, Quantity: types.NewQuantityFromFloat64(2), UnitPrice: types.MustMoney("3.00")},
		{ProductID: env.productID, Quantity: types.NewQuantityFromFloat64(3), UnitPrice: types.MustMoney("4.00")},
	})
	require.NoError(t, env.svc.Update(ctx, batch))

	stored, err := env.svc.GetByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 2)
	assert.Equal(t, reference, stored.ReferenceNumber)
	assert.Equal(t, types.NewQuantityFromFloat64(5), stored.TotalQuantity)
	assert.True(t, stored.TotalAmount.Equal(types.MustMoney("18.00")))
}

func TestService_Update_StaleVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(ctx, batch))

	fresh, err := env.svc.GetByID(ctx, batch.ID)
	require.NoError(t, err)
	require.NoError(t, env.svc.Update(ctx, fresh))

	// The caller still holds the version the row was created with.
	err = env.svc.Update(ctx, batch)
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrentModification(err))
}

func TestService_Update_TerminalBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(ctx, batch))
	approved, err := env.svc.Approve(ctx, batch.ID)
	require.NoError(t, err)

	err = env.svc.Update(ctx, approved)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestService_DeleteRestoreForceDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(ctx, batch))

	// ForceDelete before soft delete is refused.
	err := env.svc.ForceDelete(ctx, batch.ID)
	assert.True(t, apperror.IsInvalidState(err))

	require.NoError(t, env.svc.Delete(ctx, batch.ID))

	// Double delete is refused.
	assert.True(t, apperror.IsInvalidState(env.svc.Delete(ctx, batch.ID)))

	restored, err := env.svc.Restore(ctx, batch.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsTrashed())

	require.NoError(t, env.svc.Delete(ctx, batch.ID))
	require.NoError(t, env.svc.ForceDelete(ctx, batch.ID))

	_, err = env.svc.GetByID(ctx, batch.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Delete_ApprovedBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	batch := env.newBatch(5)
	require.NoError(t, env.svc.Create(ctx, batch))
	_, err := env.svc.Approve(ctx, batch.ID)
	require.NoError(t, err)

	err = env.svc.Delete(ctx, batch.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestService_ListTrashed(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	live := env.newBatch(1)
	require.NoError(t, env.svc.Create(ctx, live))

	trashed := env.newBatch(2)
	require.NoError(t, env.svc.Create(ctx, trashed))
	require.NoError(t, env.svc.Delete(ctx, trashed.ID))

	liveList, err := env.svc.List(ctx, movements.ListFilter{})
	require.NoError(t, err)
	require.Len(t, liveList.Items, 1)
	assert.Equal(t, live.ID, liveList.Items[0].ID)

	trashedList, err := env.svc.ListTrashed(ctx, movements.ListFilter{})
	require.NoError(t, err)
	require.Len(t, trashedList.Items, 1)
	assert.Equal(t, trashed.ID, trashedList.Items[0].ID)
}

func TestService_Statistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	first := env.newBatch(1)
	require.NoError(t, env.svc.Create(ctx, first))
	second := env.newBatch(2)
	require.NoError(t, env.svc.Create(ctx, second))
	_, err := env.svc.Approve(ctx, second.ID)
	require.NoError(t, err)

	stats, err := env.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCount)
	assert.Equal(t, int64(1), stats.PendingCount)
	assert.Equal(t, int64(1), stats.ApprovedCount)
}
