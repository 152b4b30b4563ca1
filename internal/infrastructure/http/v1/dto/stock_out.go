package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockyard/internal/core/id"
	"stockyard/internal/domain/movements/stockout"
)

// --- Request DTOs ---

// CreateStockOutRequest is the request body for creating a stock-out batch.
type CreateStockOutRequest struct {
	WarehouseID  string                `json:"warehouseId" binding:"required"`
	CustomerName string                `json:"customerName" binding:"required"`
	OrderNumber  *string               `json:"orderNumber"`
	Date         *time.Time            `json:"date"`
	Notes        string                `json:"notes"`
	Items        []MovementLineRequest `json:"items" binding:"required,min=1,dive"`
}

// ToEntity converts DTO to a pending domain batch.
func (r *CreateStockOutRequest) ToEntity() *stockout.Batch {
	warehouseID, _ := id.Parse(r.WarehouseID)

	batch := stockout.NewBatch(warehouseID, r.CustomerName)
	batch.OrderNumber = r.OrderNumber
	batch.Notes = r.Notes
	if r.Date != nil {
		batch.Date = *r.Date
	}
	batch.ReplaceLines(ToLineInputs(r.Items))
	return batch
}

// UpdateStockOutRequest is the request body for updating a pending batch.
// Items always replace the full line set.
type UpdateStockOutRequest struct {
	WarehouseID  string                `json:"warehouseId" binding:"required"`
	CustomerName string                `json:"customerName" binding:"required"`
	OrderNumber  *string               `json:"orderNumber"`
	Date         *time.Time            `json:"date"`
	Notes        string                `json:"notes"`
	Items        []MovementLineRequest `json:"items" binding:"required,min=1,dive"`
	Version      int                   `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateStockOutRequest) ApplyTo(batch *stockout.Batch) {
	warehouseID, _ := id.Parse(r.WarehouseID)

	batch.WarehouseID = warehouseID
	batch.CustomerName = r.CustomerName
	batch.OrderNumber = r.OrderNumber
	batch.Notes = r.Notes
	if r.Date != nil {
		batch.Date = *r.Date
	}
	batch.Version = r.Version
	batch.ReplaceLines(ToLineInputs(r.Items))
}

// --- Response DTOs ---

// StockOutResponse is the response body for a stock-out batch.
type StockOutResponse struct {
	movementHeader

	CustomerName  string                 `json:"customerName"`
	OrderNumber   *string                `json:"orderNumber,omitempty"`
	TotalQuantity float64                `json:"totalQuantity"`
	TotalAmount   decimal.Decimal        `json:"totalAmount"`
	Lines         []MovementLineResponse `json:"lines,omitempty"`
}

// FromStockOut creates response DTO from domain entity.
func FromStockOut(batch *stockout.Batch) *StockOutResponse {
	resp := &StockOutResponse{
		movementHeader: movementHeader{
			ID:              batch.ID.String(),
			ReferenceNumber: batch.ReferenceNumber,
			WarehouseID:     batch.WarehouseID.String(),
			Date:            batch.Date,
			Status:          string(batch.Status),
			Notes:           batch.Notes,
			ApprovedBy:      batch.ApprovedBy,
			ApprovedAt:      batch.ApprovedAt,
			RejectionReason: batch.RejectionReason,
			DeletedAt:       batch.DeletedAt,
			CreatedBy:       batch.CreatedBy,
			UpdatedBy:       batch.UpdatedBy,
			CreatedAt:       batch.CreatedAt,
			UpdatedAt:       batch.UpdatedAt,
			Version:         batch.Version,
		},
		CustomerName:  batch.CustomerName,
		OrderNumber:   batch.OrderNumber,
		TotalQuantity: batch.TotalQuantity.Float64(),
		TotalAmount:   batch.TotalAmount,
	}

	resp.Lines = make([]MovementLineResponse, len(batch.Lines))
	for i, line := range batch.Lines {
		resp.Lines[i] = MovementLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity.Float64(),
			UnitPrice: line.UnitPrice,
			Amount:    line.Amount,
		}
	}

	return resp
}
