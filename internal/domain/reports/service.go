package reports

import (
	"context"
	"fmt"
	"time"

	appctx "stockyard/internal/core/context"
	"stockyard/internal/domain/auth"
	"stockyard/internal/domain/ledger"
)

const (
	flowMonths    = 6
	recentLimit   = 10
	lowStockLimit = 20
)

// Service composes the dashboard.
type Service struct {
	repo     Repository
	balances *ledger.Service
}

// NewService creates a new reports service.
func NewService(repo Repository, balances *ledger.Service) *Service {
	return &Service{repo: repo, balances: balances}
}

// GetDashboard builds the dashboard shaped by the caller's role.
// Stock executives see only their own movements and no stock alerts;
// managers and admins see everything.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	scope := Scope{}
	restricted := false
	if u := appctx.GetUser(ctx); u != nil && !u.IsAdmin && u.Role == auth.RoleStockExecutive {
		userID := u.UserID
		scope.CreatedBy = &userID
		restricted = true
	}

	counts, err := s.repo.GetCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("get counts: %w", err)
	}

	from := monthStart(time.Now().UTC()).AddDate(0, -(flowMonths - 1), 0)
	flow, err := s.repo.GetMonthlyFlow(ctx, from, scope)
	if err != nil {
		return nil, fmt.Errorf("get monthly flow: %w", err)
	}

	recent, err := s.repo.GetRecentMovements(ctx, recentLimit, scope)
	if err != nil {
		return nil, fmt.Errorf("get recent movements: %w", err)
	}

	dashboard := &Dashboard{
		Counts:          counts,
		MonthlyFlow:     fillMissingMonths(flow, from, flowMonths),
		RecentMovements: recent,
	}

	if !restricted {
		lowStock, err := s.balances.GetLowStock(ctx, lowStockLimit)
		if err != nil {
			return nil, fmt.Errorf("get low stock: %w", err)
		}
		dashboard.LowStock = lowStock
	}

	return dashboard, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// fillMissingMonths pads the series so the chart always shows a
// contiguous window, including months with no movements.
func fillMissingMonths(points []MonthlyFlowPoint, from time.Time, months int) []MonthlyFlowPoint {
	byMonth := make(map[string]MonthlyFlowPoint, len(points))
	for _, p := range points {
		byMonth[p.Month] = p
	}

	out := make([]MonthlyFlowPoint, 0, months)
	for i := 0; i < months; i++ {
		month := from.AddDate(0, i, 0).Format("2006-01")
		if p, ok := byMonth[month]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, MonthlyFlowPoint{Month: month})
	}
	return out
}
