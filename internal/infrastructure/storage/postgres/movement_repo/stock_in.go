package movement_repo

import (
	"stockyard/internal/core/id"
	"stockyard/internal/domain/movements/stockin"
	"stockyard/internal/infrastructure/storage/postgres"
)

const (
	stockInTable     = "stock_in_batches"
	stockInLineTable = "stock_in_lines"
)

// Compile-time check.
var _ stockin.Repository = (*StockInRepo)(nil)

// StockInRepo implements stockin.Repository.
type StockInRepo struct {
	*BaseMovementRepo[*stockin.Batch, stockin.Line]
}

// NewStockInRepo creates a new stock-in repository.
func NewStockInRepo(txManager *postgres.TxManager) *StockInRepo {
	return &StockInRepo{
		BaseMovementRepo: NewBaseMovementRepo(
			txManager,
			stockInTable,
			stockInLineTable,
			postgres.ExtractDBColumns[stockin.Batch](),
			postgres.ExtractDBColumns[stockin.Line](),
			[]string{"reference_number", "supplier_name"},
			func() *stockin.Batch { return &stockin.Batch{} },
			func(batchID id.ID, line stockin.Line) []any {
				return []any{line.LineID, line.LineNo, line.ProductID, line.Quantity, line.UnitPrice, line.Amount}
			},
		),
	}
}
