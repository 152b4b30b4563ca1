package handlers

import (
	"stockyard/internal/domain/movements/stockin"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// StockInHTTPHandler is the configured generic handler for stock-in batches.
type StockInHTTPHandler = MovementHandler[
	*stockin.Batch,
	dto.CreateStockInRequest,
	dto.UpdateStockInRequest,
]

// NewStockInHandler creates a configured handler for stock-in batches.
func NewStockInHandler(base *BaseHandler, service *stockin.Service) *StockInHTTPHandler {
	config := MovementHandlerConfig[
		*stockin.Batch,
		dto.CreateStockInRequest,
		dto.UpdateStockInRequest,
	]{
		Service:    service,
		EntityName: "stock_in",

		MapCreateDTO: func(req dto.CreateStockInRequest) *stockin.Batch {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateStockInRequest, existing *stockin.Batch) {
			req.ApplyTo(existing)
		},
		MapToDTO: func(batch *stockin.Batch) any {
			return dto.FromStockIn(batch)
		},
	}

	return NewMovementHandler(base, config)
}
