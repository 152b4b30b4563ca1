// Package movements provides types shared by the stock-in and stock-out
// batch workflows.
package movements

import (
	"time"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain"
)

// LineInput is one validated line item submitted with a batch.
type LineInput struct {
	ProductID id.ID          `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
}

// ListFilter narrows batch listings.
type ListFilter struct {
	domain.ListFilter

	Status      *entity.MovementStatus
	WarehouseID *id.ID
	CreatedBy   *string
	DateFrom    *time.Time
	DateTo      *time.Time

	// OnlyTrashed restricts the listing to soft-deleted batches.
	OnlyTrashed bool
}

// Statistics summarizes batches of one kind.
type Statistics struct {
	TotalCount    int64          `json:"totalCount"`
	PendingCount  int64          `json:"pendingCount"`
	ApprovedCount int64          `json:"approvedCount"`
	RejectedCount int64          `json:"rejectedCount"`
	TodayCount    int64          `json:"todayCount"`
	ApprovedQty   types.Quantity `json:"approvedQuantity"`
	ApprovedTotal types.Money    `json:"approvedAmount"`
}
