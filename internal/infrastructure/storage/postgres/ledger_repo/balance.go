// Package ledger_repo provides the PostgreSQL stock balance repository.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockyard/internal/core/id"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/infrastructure/storage/postgres"
)

const balanceTable = "stock_balances"

// Compile-time check.
var _ ledger.Repository = (*BalanceRepo)(nil)

// BalanceRepo implements ledger.Repository.
type BalanceRepo struct {
	txManager *postgres.TxManager
}

// NewBalanceRepo creates a new balance repository.
func NewBalanceRepo(txManager *postgres.TxManager) *BalanceRepo {
	return &BalanceRepo{txManager: txManager}
}

func (r *BalanceRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BalanceRepo) get(ctx context.Context, productID, warehouseID id.ID, forUpdate bool) (ledger.StockBalance, error) {
	q := r.builder().
		Select("product_id", "warehouse_id", "quantity", "reserved_quantity", "available_quantity", "last_updated").
		From(balanceTable).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Eq{"warehouse_id": warehouseID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return ledger.StockBalance{}, fmt.Errorf("build query: %w", err)
	}

	var balance ledger.StockBalance
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			// No row yet: a zero balance, created on first upsert.
			return ledger.NewStockBalance(productID, warehouseID), nil
		}
		return ledger.StockBalance{}, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetBalance returns the current balance (no lock).
func (r *BalanceRepo) GetBalance(ctx context.Context, productID, warehouseID id.ID) (ledger.StockBalance, error) {
	return r.get(ctx, productID, warehouseID, false)
}

// GetBalanceForUpdate returns the balance with a row lock.
func (r *BalanceRepo) GetBalanceForUpdate(ctx context.Context, productID, warehouseID id.ID) (ledger.StockBalance, error) {
	return r.get(ctx, productID, warehouseID, true)
}

// Upsert writes the balance row, creating it if absent.
func (r *BalanceRepo) Upsert(ctx context.Context, balance ledger.StockBalance) error {
	sql := `
		INSERT INTO stock_balances (
			product_id, warehouse_id, quantity, reserved_quantity, available_quantity, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			reserved_quantity = EXCLUDED.reserved_quantity,
			available_quantity = EXCLUDED.available_quantity,
			last_updated = EXCLUDED.last_updated
	`

	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		balance.ProductID, balance.WarehouseID,
		balance.Quantity, balance.ReservedQuantity, balance.AvailableQuantity,
		balance.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// List returns balances with product and warehouse names joined.
func (r *BalanceRepo) List(ctx context.Context, filter ledger.BalanceFilter) ([]ledger.BalanceRow, error) {
	q := r.builder().
		Select(
			"b.product_id", "b.warehouse_id",
			"b.quantity", "b.reserved_quantity", "b.available_quantity", "b.last_updated",
			"p.name AS product_name", "p.sku AS product_sku",
			"w.name AS warehouse_name",
		).
		From(balanceTable + " b").
		Join("products p ON p.id = b.product_id").
		Join("warehouses w ON w.id = b.warehouse_id")

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"b.warehouse_id": *filter.WarehouseID})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"b.product_id": *filter.ProductID})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"b.quantity": 0})
	}

	q = q.OrderBy("p.name ASC", "w.name ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows := make([]ledger.BalanceRow, 0)
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	return rows, nil
}

// HasPositiveStock reports whether the warehouse holds any positive balance.
func (r *BalanceRepo) HasPositiveStock(ctx context.Context, warehouseID id.ID) (bool, error) {
	q := r.builder().
		Select("1").
		From(balanceTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Gt{"quantity": 0}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has positive stock: %w", err)
	}
	return true, nil
}

// GetLowStock returns products whose total on-hand quantity across all
// warehouses fell below their min stock level.
func (r *BalanceRepo) GetLowStock(ctx context.Context, limit int) ([]ledger.LowStockRow, error) {
	sql := `
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			p.sku AS product_sku,
			p.min_stock_level,
			COALESCE(SUM(b.quantity), 0) AS total_quantity
		FROM products p
		LEFT JOIN stock_balances b ON b.product_id = p.id
		WHERE p.deletion_mark = false
		  AND p.is_active = true
		  AND p.min_stock_level > 0
		GROUP BY p.id, p.name, p.sku, p.min_stock_level
		HAVING COALESCE(SUM(b.quantity), 0) < p.min_stock_level
		ORDER BY COALESCE(SUM(b.quantity), 0)::numeric / p.min_stock_level ASC
		LIMIT $1
	`

	rows := make([]ledger.LowStockRow, 0)
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, limit); err != nil {
		return nil, fmt.Errorf("get low stock: %w", err)
	}
	return rows, nil
}
