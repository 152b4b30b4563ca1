// Package reports provides the dashboard report service.
package reports

import (
	"time"

	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/ledger"
)

// DashboardCounts holds the headline figures.
type DashboardCounts struct {
	Products        int64 `json:"products"`
	Warehouses      int64 `json:"warehouses"`
	Users           int64 `json:"users"`
	PendingStockIn  int64 `json:"pendingStockIn"`
	PendingStockOut int64 `json:"pendingStockOut"`
}

// MonthlyFlowPoint is one month of approved movement totals.
type MonthlyFlowPoint struct {
	// Month in YYYY-MM form
	Month       string         `json:"month"`
	StockInQty  types.Quantity `json:"stockInQuantity"`
	StockOutQty types.Quantity `json:"stockOutQuantity"`
}

// RecentMovement is one row of the merged recent activity feed.
type RecentMovement struct {
	Kind            string         `json:"kind"` // "stock_in" | "stock_out"
	ID              id.ID          `json:"id"`
	ReferenceNumber string         `json:"referenceNumber"`
	WarehouseName   string         `json:"warehouseName"`
	Status          string         `json:"status"`
	TotalQuantity   types.Quantity `json:"totalQuantity"`
	TotalAmount     types.Money    `json:"totalAmount"`
	Date            time.Time      `json:"date"`
	CreatedBy       string         `json:"createdBy"`
}

// Dashboard is the composed dashboard payload. LowStock is omitted for
// users who only see their own movements.
type Dashboard struct {
	Counts          DashboardCounts      `json:"counts"`
	MonthlyFlow     []MonthlyFlowPoint   `json:"monthlyFlow"`
	RecentMovements []RecentMovement     `json:"recentMovements"`
	LowStock        []ledger.LowStockRow `json:"lowStock,omitempty"`
}

// Scope narrows dashboard queries. A nil CreatedBy means unrestricted.
type Scope struct {
	CreatedBy *string
}
