package handlers

import (
	"stockyard/internal/domain/movements/stockout"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// StockOutHTTPHandler is the configured generic handler for stock-out batches.
type StockOutHTTPHandler = MovementHandler[
	*stockout.Batch,
	dto.CreateStockOutRequest,
	dto.UpdateStockOutRequest,
]

// NewStockOutHandler creates a configured handler for stock-out batches.
func NewStockOutHandler(base *BaseHandler, service *stockout.Service) *StockOutHTTPHandler {
	config := MovementHandlerConfig[
		*stockout.Batch,
		dto.CreateStockOutRequest,
		dto.UpdateStockOutRequest,
	]{
		Service:    service,
		EntityName: "stock_out",

		MapCreateDTO: func(req dto.CreateStockOutRequest) *stockout.Batch {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateStockOutRequest, existing *stockout.Batch) {
			req.ApplyTo(existing)
		},
		MapToDTO: func(batch *stockout.Batch) any {
			return dto.FromStockOut(batch)
		},
	}

	return NewMovementHandler(base, config)
}
