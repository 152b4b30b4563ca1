// Package ledger provides the denormalized stock balance ledger.
package ledger

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// Repository defines persistence operations for stock balances.
//
// GetBalance and GetBalanceForUpdate return a zero-value balance for the
// pair when no row exists yet; callers never see a not-found error.
type Repository interface {
	// GetBalance returns the current balance (no lock).
	GetBalance(ctx context.Context, productID, warehouseID id.ID) (StockBalance, error)

	// GetBalanceForUpdate returns the balance with a row lock (FOR UPDATE).
	// Must be called inside a transaction; serializes concurrent approvals
	// against the same (product, warehouse) pair.
	GetBalanceForUpdate(ctx context.Context, productID, warehouseID id.ID) (StockBalance, error)

	// Upsert writes the balance row, creating it if absent.
	Upsert(ctx context.Context, balance StockBalance) error

	// List returns balances with product/warehouse names joined.
	List(ctx context.Context, filter BalanceFilter) ([]BalanceRow, error)

	// HasPositiveStock reports whether the warehouse holds any positive balance.
	HasPositiveStock(ctx context.Context, warehouseID id.ID) (bool, error)

	// GetLowStock returns products whose total on-hand quantity is below
	// their min stock level.
	GetLowStock(ctx context.Context, limit int) ([]LowStockRow, error)
}

// BalanceFilter narrows balance listings.
type BalanceFilter struct {
	WarehouseID *id.ID
	ProductID   *id.ID
	ExcludeZero bool
	Limit       int
	Offset      int
}

// BalanceRow is a balance with display names for listings.
type BalanceRow struct {
	StockBalance
	ProductName   string `db:"product_name" json:"productName"`
	ProductSKU    string `db:"product_sku" json:"productSku"`
	WarehouseName string `db:"warehouse_name" json:"warehouseName"`
}

// LowStockRow is a product whose stock fell below its minimum level.
type LowStockRow struct {
	ProductID     id.ID          `db:"product_id" json:"productId"`
	ProductName   string         `db:"product_name" json:"productName"`
	ProductSKU    string         `db:"product_sku" json:"productSku"`
	MinStockLevel types.Quantity `db:"min_stock_level" json:"minStockLevel"`
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
}
