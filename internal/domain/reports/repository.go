package reports

import (
	"context"
	"time"
)

// Repository defines dashboard data access.
type Repository interface {
	// GetCounts returns the headline figures within the scope.
	GetCounts(ctx context.Context, scope Scope) (DashboardCounts, error)

	// GetMonthlyFlow returns approved movement totals per month since from.
	GetMonthlyFlow(ctx context.Context, from time.Time, scope Scope) ([]MonthlyFlowPoint, error)

	// GetRecentMovements returns the newest batches of both kinds, merged.
	GetRecentMovements(ctx context.Context, limit int, scope Scope) ([]RecentMovement, error)
}
