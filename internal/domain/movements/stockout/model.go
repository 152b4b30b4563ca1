// Package stockout provides the stock-out batch (outbound stock issue).
package stockout

import (
	"context"
	"fmt"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/domain/movements"
	"stockyard/internal/domain/workflow"
)

// Batch represents one outbound issue: a header plus its line items.
// All lines share the header's reference number, status, warehouse,
// customer and date; the batch is approved, rejected and deleted as a whole.
type Batch struct {
	entity.MovementBatch

	// CustomerName is the free-text recipient of the goods
	CustomerName string `db:"customer_name" json:"customerName"`

	// OrderNumber is the sales order this issue fulfils
	OrderNumber *string `db:"order_number" json:"orderNumber,omitempty"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`

	// Table part: issued items
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a single issued item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`

	// Amount is always Quantity × UnitPrice, computed when the line is added
	Amount types.Money `db:"amount" json:"amount"`
}

// NewBatch creates a pending stock-out batch.
func NewBatch(warehouseID id.ID, customerName string) *Batch {
	return &Batch{
		MovementBatch: entity.NewMovementBatch(warehouseID),
		CustomerName:  customerName,
		Lines:         make([]Line, 0),
	}
}

// AddLine appends a line and recalculates totals.
func (b *Batch) AddLine(productID id.ID, quantity types.Quantity, unitPrice types.Money) {
	line := Line{
		LineID:    id.New(),
		LineNo:    len(b.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    quantity.Decimal().Mul(unitPrice),
	}

	b.Lines = append(b.Lines, line)
	b.recalculateTotals()
}

// ReplaceLines swaps the entire line set (pending-only batch update).
func (b *Batch) ReplaceLines(items []movements.LineInput) {
	b.Lines = make([]Line, 0, len(items))
	for _, item := range items {
		b.AddLine(item.ProductID, item.Quantity, item.UnitPrice)
	}
}

func (b *Batch) recalculateTotals() {
	b.TotalQuantity = 0
	b.TotalAmount = types.Zero()

	for _, line := range b.Lines {
		b.TotalQuantity += line.Quantity
		b.TotalAmount = b.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (b *Batch) Validate(ctx context.Context) error {
	if err := b.MovementBatch.Validate(ctx); err != nil {
		return err
	}

	if b.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}
	if len(b.CustomerName) > entity.MaxCounterpartyLen {
		return apperror.NewValidation(fmt.Sprintf("customer name must not exceed %d characters", entity.MaxCounterpartyLen)).
			WithDetail("field", "customerName")
	}

	if len(b.Lines) == 0 {
		return apperror.NewValidation("at least one line item is required").
			WithDetail("field", "items")
	}

	for i, line := range b.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity < types.MinMovementQuantity {
			return apperror.NewValidation("quantity must be at least 0.01").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// LedgerEffects returns one expense per line (applied on approval).
// ApplyExpense re-validates availability under the row lock, so an
// approval that would overdraw the balance fails inside the transaction.
func (b *Batch) LedgerEffects() []ledger.Effect {
	effects := make([]ledger.Effect, 0, len(b.Lines))
	for _, line := range b.Lines {
		effects = append(effects, ledger.Effect{
			ProductID:   line.ProductID,
			WarehouseID: b.WarehouseID,
			Quantity:    line.Quantity,
			Kind:        ledger.EffectExpense,
		})
	}
	return effects
}

// Ensure interface compliance at compile time.
var _ workflow.Batch = (*Batch)(nil)
