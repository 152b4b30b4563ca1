// Package ledger provides the denormalized stock balance ledger.
// One row per (product, warehouse) pair tracks on-hand, reserved and
// available quantity. Available is always derived, never set directly.
package ledger

import (
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// StockBalance is the ledger row for a (product, warehouse) pair.
type StockBalance struct {
	ProductID   id.ID `db:"product_id" json:"productId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Quantity is the total on-hand amount
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// ReservedQuantity is held for pending outbound movements
	ReservedQuantity types.Quantity `db:"reserved_quantity" json:"reservedQuantity"`

	// AvailableQuantity is always Quantity - ReservedQuantity
	AvailableQuantity types.Quantity `db:"available_quantity" json:"availableQuantity"`

	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`
}

// NewStockBalance creates a zero balance for the pair.
// Balances are created lazily on the first approved stock-in.
func NewStockBalance(productID, warehouseID id.ID) StockBalance {
	return StockBalance{
		ProductID:   productID,
		WarehouseID: warehouseID,
	}
}

// recompute is the single place AvailableQuantity is derived.
func (b *StockBalance) recompute(now time.Time) {
	b.AvailableQuantity = b.Quantity - b.ReservedQuantity
	b.LastUpdated = now
}

// ApplyReceipt adds an approved inbound quantity.
func (b *StockBalance) ApplyReceipt(qty types.Quantity, now time.Time) error {
	if !qty.IsPositive() {
		return apperror.NewValidation("receipt quantity must be positive").
			WithDetail("quantity", qty.String())
	}

	b.Quantity += qty
	b.recompute(now)
	return nil
}

// ApplyExpense subtracts an approved outbound quantity.
// Fails with InsufficientStock when the available amount does not cover it;
// a missing ledger row behaves exactly like this with a zero balance.
func (b *StockBalance) ApplyExpense(qty types.Quantity, now time.Time) error {
	if !qty.IsPositive() {
		return apperror.NewValidation("expense quantity must be positive").
			WithDetail("quantity", qty.String())
	}

	if b.AvailableQuantity < qty {
		return apperror.NewInsufficientStock(
			b.ProductID.String(),
			qty.String(),
			b.AvailableQuantity.String(),
		).WithDetail("warehouse_id", b.WarehouseID.String())
	}

	b.Quantity -= qty
	b.recompute(now)
	return nil
}

// Reserve holds stock against a not-yet-approved outbound movement.
func (b *StockBalance) Reserve(qty types.Quantity, now time.Time) error {
	if !qty.IsPositive() {
		return apperror.NewValidation("reserve quantity must be positive").
			WithDetail("quantity", qty.String())
	}

	if b.AvailableQuantity < qty {
		return apperror.NewInsufficientStock(
			b.ProductID.String(),
			qty.String(),
			b.AvailableQuantity.String(),
		).WithDetail("warehouse_id", b.WarehouseID.String())
	}

	b.ReservedQuantity += qty
	b.recompute(now)
	return nil
}

// Release returns previously reserved stock to the available pool.
func (b *StockBalance) Release(qty types.Quantity, now time.Time) error {
	if !qty.IsPositive() {
		return apperror.NewValidation("release quantity must be positive").
			WithDetail("quantity", qty.String())
	}

	if b.ReservedQuantity < qty {
		return apperror.NewInvalidState("release exceeds reserved quantity").
			WithDetail("reserved", b.ReservedQuantity.String()).
			WithDetail("requested", qty.String())
	}

	b.ReservedQuantity -= qty
	b.recompute(now)
	return nil
}

// EffectKind is the direction of a ledger effect.
type EffectKind string

const (
	// EffectReceipt increases on-hand quantity (stock-in approval)
	EffectReceipt EffectKind = "receipt"
	// EffectExpense decreases on-hand quantity (stock-out approval)
	EffectExpense EffectKind = "expense"
)

// Effect is one quantity delta produced by an approved movement line.
type Effect struct {
	ProductID   id.ID
	WarehouseID id.ID
	Quantity    types.Quantity
	Kind        EffectKind
}
