package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/movements"
)

// --- Shared movement DTOs ---

// MovementLineRequest is one line item in a batch create/update request.
type MovementLineRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Quantity  float64         `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// ToLineInputs converts request lines to domain line inputs.
// Malformed product IDs become nil and are rejected by batch validation.
func ToLineInputs(lines []MovementLineRequest) []movements.LineInput {
	items := make([]movements.LineInput, 0, len(lines))
	for _, line := range lines {
		productID, _ := id.Parse(line.ProductID)
		items = append(items, movements.LineInput{
			ProductID: productID,
			Quantity:  types.NewQuantityFromFloat64(line.Quantity),
			UnitPrice: line.UnitPrice,
		})
	}
	return items
}

// MovementLineResponse is one line item in a batch response.
type MovementLineResponse struct {
	LineID    string          `json:"lineId"`
	LineNo    int             `json:"lineNo"`
	ProductID string          `json:"productId"`
	Quantity  float64         `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MovementStatisticsResponse summarizes batches of one movement kind.
type MovementStatisticsResponse struct {
	TotalCount       int64           `json:"totalCount"`
	PendingCount     int64           `json:"pendingCount"`
	ApprovedCount    int64           `json:"approvedCount"`
	RejectedCount    int64           `json:"rejectedCount"`
	TodayCount       int64           `json:"todayCount"`
	ApprovedQuantity float64         `json:"approvedQuantity"`
	ApprovedAmount   decimal.Decimal `json:"approvedAmount"`
}

// FromStatistics creates response DTO from domain statistics.
func FromStatistics(s movements.Statistics) *MovementStatisticsResponse {
	return &MovementStatisticsResponse{
		TotalCount:       s.TotalCount,
		PendingCount:     s.PendingCount,
		ApprovedCount:    s.ApprovedCount,
		RejectedCount:    s.RejectedCount,
		TodayCount:       s.TodayCount,
		ApprovedQuantity: s.ApprovedQty.Float64(),
		ApprovedAmount:   s.ApprovedTotal,
	}
}

// movementHeader holds the response fields common to both batch kinds.
type movementHeader struct {
	ID              string     `json:"id"`
	ReferenceNumber string     `json:"referenceNumber"`
	WarehouseID     string     `json:"warehouseId"`
	Date            time.Time  `json:"date"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	ApprovedBy      *string    `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	DeletedAt       *time.Time `json:"deletedAt,omitempty"`
	CreatedBy       string     `json:"createdBy,omitempty"`
	UpdatedBy       string     `json:"updatedBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Version         int        `json:"version"`
}
