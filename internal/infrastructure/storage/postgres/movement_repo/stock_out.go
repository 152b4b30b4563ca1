package movement_repo

import (
	"stockyard/internal/core/id"
	"stockyard/internal/domain/movements/stockout"
	"stockyard/internal/infrastructure/storage/postgres"
)

const (
	stockOutTable     = "stock_out_batches"
	stockOutLineTable = "stock_out_lines"
)

// Compile-time check.
var _ stockout.Repository = (*StockOutRepo)(nil)

// StockOutRepo implements stockout.Repository.
type StockOutRepo struct {
	*BaseMovementRepo[*stockout.Batch, stockout.Line]
}

// NewStockOutRepo creates a new stock-out repository.
func NewStockOutRepo(txManager *postgres.TxManager) *StockOutRepo {
	return &StockOutRepo{
		BaseMovementRepo: NewBaseMovementRepo(
			txManager,
			stockOutTable,
			stockOutLineTable,
			postgres.ExtractDBColumns[stockout.Batch](),
			postgres.ExtractDBColumns[stockout.Line](),
			[]string{"reference_number", "customer_name"},
			func() *stockout.Batch { return &stockout.Batch{} },
			func(batchID id.ID, line stockout.Line) []any {
				return []any{line.LineID, line.LineNo, line.ProductID, line.Quantity, line.UnitPrice, line.Amount}
			},
		),
	}
}
