package stockout

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
		return nil, apperror.NewNotFound("stock_out", batchID.String())
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
	return nil, apperror.NewNotFound("stock_out", reference)
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, batchID id.ID) (*Batch, error) {
	return r.GetByID(ctx, batchID)
}

// Update mirrors the SQL contract: the write only lands when the caller
// holds the version the row was read with, and the stored version bumps.
func (r *fakeRepo) Update(ctx context.Context, batch *Batch) error {
	stored, ok := r.batches[batch.ID]
	if !ok {
		return apperror.NewNotFound("stock_out", batch.ID.String())
	}
	if stored.Version != batch.Version {
		return apperror.NewConcurrentModification("stock_out_batches", batch.ID)
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
	return false, nil
}

func (r *fakeRepo) GetStatistics(ctx context.Context) (movements.Statistics, error) {
	return movements.Statistics{TotalCount: int64(len(r.batches))}, nil
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
	ledgerSvc   *ledger.Service
	warehouseID id.ID
	productID   id.ID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	wh := warehouse.NewWarehouse("MAIN", "Main Warehouse")
	p := product.NewProduct("SKU-1", "Widget", id.New(), id.New())

	repo := newFakeRepo()
	balances := &fakeBalanceRepo{balances: make(map[string]ledger.StockBalance)}
	txm := passthroughTxManager{}

	ledgerSvc := ledger.NewService(balances, txm)
	engine := workflow.NewEngine(ledgerSvc, txm, nil)
	validator := movements.NewRefValidator(
		&fakeWarehouseRepo{items: map[id.ID]*warehouse.Warehouse{wh.ID: wh}},
		&fakeProductRepo{items: map[id.ID]*product.Product{p.ID: p}},
	)

	return &testEnv{
		svc:         NewService(repo, &refnum.MockAllocator{}, validator, ledgerSvc, engine, txm, nil),
		repo:        repo,
		balances:    balances,
		ledgerSvc:   ledgerSvc,
		warehouseID: wh.ID,
		productID:   p.ID,
	}
}

func userCtx(userID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: userID})
}

// stock puts quantity on hand for the env's (product, warehouse) pair.
func (e *testEnv) stock(t *testing.T, quantity float64) {
	t.Helper()
	err := e.ledgerSvc.Apply(context.Background(), ledger.Effect{
		ProductID:   e.productID,
		WarehouseID: e.warehouseID,
		Quantity:    types.NewQuantityFromFloat64(quantity),
		Kind:        ledger.EffectReceipt,
	})
	require.NoError(t, err)
}

func (e *testEnv) newBatch(qty float64) *Batch {
	batch := NewBatch(e.warehouseID, "Globex Corp")
	batch.AddLine(e.productID, types.NewQuantityFromFloat64(qty), types.MustMoney("20.00"))
	return batch
}

// --- tests ---

func TestService_Create(t *testing.T) {
	env := newTestEnv(t)
	env.stock(t, 10)
	ctx := userCtx("user-1")

	batch := env.newBatch(4)
	require.NoError(t, env.svc.Create(ctx, batch))

	assert.True(t, strings.HasPrefix(batch.ReferenceNumber, "SO-"), batch.ReferenceNumber)
	assert.Equal(t, entity.StatusPending, batch.Status)

	// Creation alone never moves stock.
	b, _ := env.balances.GetBalance(ctx, env.productID, env.warehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(10), b.Quantity)
}

func TestService_Create_BackdatedBatch(t *testing.T) {
	env := newTestEnv(t)
	env.stock(t, 10)

	batch := env.newBatch(4)
	batch.Date = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.svc.Create(userCtx("user-1"), batch))

	// The reference carries the creation date, not the business date.
	today := time.Now().UTC().Format("20060102")
	assert.Equal(t, "SO-"+today+"-0001", batch.ReferenceNumber)
}

func TestService_Create_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	env.stock(t, 3)

	batch := env.newBatch(4)
	err := env.svc.Create(userCtx("user-1"), batch)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing was persisted and no reference was assigned.
	assert.Empty(t, batch.ReferenceNumber)
	assert.Empty(t, env.repo.batches)
}

func TestService_Create_NoStockRow(t *testing.T) {
	env := newTestEnv(t)

	// No ledger row at all reads as a zero balance.
	batch := env.newBatch(1)
	err := env.svc.Create(userCtx("user-1"), batch)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestService_Approve_AppliesExpense(t *testing.T) {
	env := newTestEnv(t)
	env.stock(t, 10)
	ctx := userCtx("manager-1")

	batch := env.newBatch(4)
	require.NoError(t, env.svc.Create(ctx, batch))

	approved, err := env.svc.Approve(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, approved.Status)

	b, _ := env.balances.GetBalance(ctx, env.productID, env.warehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(6), b.Quantity)
	assert.Equal(t, types.NewQuantityFromFloat64(6), b.AvailableQuantity)
}

func TestService_Approve_RevalidatesStock(t *testing.T) {
	env := newTestEnv(t)
	env.stock(t, 10)
	ctx := userCtx("manager-1")

	// Two pending batches both pass the creation check against 10 on hand.
	first := env.newBatch(7)
	require.NoError(t, env.svc.Create(ctx, first))
	second := env.newBatch(7)
	require.NoError(t, env.svc.Create(ctx, second))

	_, err := env.svc.Approve(ctx, first.ID)
	require.NoError(t, err)

	// The second approval re-checks the ledger and must fail.
	_, err = env.svc.Approve(ctx, second.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// The failed batch stays pending and the ledger kept the first expense only.
	stored, err := env.svc.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)

	b, _ := env.balances.GetBalance(ctx, env.productID, env.warehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(3), b.Quantity)
}

func TestService_Reject_KeepsStock(t *testing.T) {
	env := newTestEnv(t)
	env.stock(t, 10)
	ctx := userCtx("manager-1")

	batch := env.newBatch(4)
	require.NoError(t, env.svc.Create(ctx, batch))

	rejected, err := env.svc.Reject(ctx, batch.ID, "order cancelled")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, rejected.Status)

	b, _ := env.balances.GetBalance(ctx, env.productID, env.warehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(10), b.Quantity)
}

func TestService_Update_RechecksAvailability(t *testing.T) {
	env := newTestEnv(t)
	env.stock(t, 10)
	ctx := userCtx("user-1")

	batch := env.newBatch(4)
	require.NoError(t, env.svc.Create(ctx, batch))

	batch.ReplaceLines([]movements.LineInput{
		{ProductID: env.productID, Quantity: types.NewQuantityFromFloat64(11), UnitPrice: types.MustMoney("20.00")},
	})
	err := env.svc.Update(ctx, batch)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestService_Statistics(t *testing.T) {
	env := newTestEnv(t)
	env.stock(t, 10)
	ctx := userCtx("user-1")

	require.NoError(t, env.svc.Create(ctx, env.newBatch(1)))
	require.NoError(t, env.svc.Create(ctx, env.newBatch(2)))

	stats, err := env.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCount)
}
