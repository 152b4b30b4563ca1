package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockyard/internal/core/id"
	"stockyard/internal/domain/movements/stockin"
)

// --- Request DTOs ---

// CreateStockInRequest is the request body for creating a stock-in batch.
type CreateStockInRequest struct {
	WarehouseID     string                `json:"warehouseId" binding:"required"`
	SupplierName    string                `json:"supplierName" binding:"required"`
	SupplierInvoice *string               `json:"supplierInvoice"`
	Date            *time.Time            `json:"date"`
	Notes           string                `json:"notes"`
	Items           []MovementLineRequest `json:"items" binding:"required,min=1,dive"`
}

// ToEntity converts DTO to a pending domain batch.
func (r *CreateStockInRequest) ToEntity() *stockin.Batch {
	warehouseID, _ := id.Parse(r.WarehouseID)

	batch := stockin.NewBatch(warehouseID, r.SupplierName)
	batch.SupplierInvoice = r.SupplierInvoice
	batch.Notes = r.Notes
	if r.Date != nil {
		batch.Date = *r.Date
	}
	batch.ReplaceLines(ToLineInputs(r.Items))
	return batch
}

// UpdateStockInRequest is the request body for updating a pending batch.
// Items always replace the full line set.
type UpdateStockInRequest struct {
	WarehouseID     string                `json:"warehouseId" binding:"required"`
	SupplierName    string                `json:"supplierName" binding:"required"`
	SupplierInvoice *string               `json:"supplierInvoice"`
	Date            *time.Time            `json:"date"`
	Notes           string                `json:"notes"`
	Items           []MovementLineRequest `json:"items" binding:"required,min=1,dive"`
	Version         int                   `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateStockInRequest) ApplyTo(batch *stockin.Batch) {
	warehouseID, _ := id.Parse(r.WarehouseID)

	batch.WarehouseID = warehouseID
	batch.SupplierName = r.SupplierName
	batch.SupplierInvoice = r.SupplierInvoice
	batch.Notes = r.Notes
	if r.Date != nil {
		batch.Date = *r.Date
	}
	batch.Version = r.Version
	batch.ReplaceLines(ToLineInputs(r.Items))
}

// --- Response DTOs ---

// StockInResponse is the response body for a stock-in batch.
type StockInResponse struct {
	movementHeader

	SupplierName    string                 `json:"supplierName"`
	SupplierInvoice *string                `json:"supplierInvoice,omitempty"`
	TotalQuantity   float64                `json:"totalQuantity"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	Lines           []MovementLineResponse `json:"lines,omitempty"`
}

// FromStockIn creates response DTO from domain entity.
func FromStockIn(batch *stockin.Batch) *StockInResponse {
	resp := &StockInResponse{
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
		SupplierName:    batch.SupplierName,
		SupplierInvoice: batch.SupplierInvoice,
		TotalQuantity:   batch.TotalQuantity.Float64(),
		TotalAmount:     batch.TotalAmount,
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
