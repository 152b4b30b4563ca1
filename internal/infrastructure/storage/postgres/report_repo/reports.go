// Package report_repo provides the PostgreSQL dashboard repository.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockyard/internal/core/types"
	"stockyard/internal/domain/reports"
	"stockyard/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// scopeArg returns the created_by argument used by scoped queries.
// NULL disables the filter.
func scopeArg(scope reports.Scope) any {
	if scope.CreatedBy == nil {
		return nil
	}
	return *scope.CreatedBy
}

// GetCounts returns the headline figures within the scope.
func (r *ReportRepo) GetCounts(ctx context.Context, scope reports.Scope) (reports.DashboardCounts, error) {
	var counts reports.DashboardCounts

	sql := `
		SELECT
			(SELECT COUNT(*) FROM products WHERE deletion_mark = false) AS products,
			(SELECT COUNT(*) FROM warehouses WHERE deletion_mark = false) AS warehouses,
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL) AS users,
			(SELECT COUNT(*) FROM stock_in_batches
				WHERE status = 'pending' AND deleted_at IS NULL
				  AND ($1::text IS NULL OR created_by = $1)) AS pending_stock_in,
			(SELECT COUNT(*) FROM stock_out_batches
				WHERE status = 'pending' AND deleted_at IS NULL
				  AND ($1::text IS NULL OR created_by = $1)) AS pending_stock_out
	`

	q := r.txManager.GetQuerier(ctx)
	err := q.QueryRow(ctx, sql, scopeArg(scope)).Scan(
		&counts.Products,
		&counts.Warehouses,
		&counts.Users,
		&counts.PendingStockIn,
		&counts.PendingStockOut,
	)
	if err != nil {
		return counts, fmt.Errorf("query counts: %w", err)
	}

	return counts, nil
}

// GetMonthlyFlow returns approved movement totals per month since from.
func (r *ReportRepo) GetMonthlyFlow(ctx context.Context, from time.Time, scope reports.Scope) ([]reports.MonthlyFlowPoint, error) {
	sql := `
		WITH flows AS (
			SELECT to_char(date_trunc('month', date), 'YYYY-MM') AS month,
			       total_quantity AS in_qty,
			       0::bigint AS out_qty
			FROM stock_in_batches
			WHERE status = 'approved' AND deleted_at IS NULL AND date >= $1
			  AND ($2::text IS NULL OR created_by = $2)
			UNION ALL
			SELECT to_char(date_trunc('month', date), 'YYYY-MM') AS month,
			       0::bigint AS in_qty,
			       total_quantity AS out_qty
			FROM stock_out_batches
			WHERE status = 'approved' AND deleted_at IS NULL AND date >= $1
			  AND ($2::text IS NULL OR created_by = $2)
		)
		SELECT month,
		       COALESCE(SUM(in_qty), 0) AS stock_in_qty,
		       COALESCE(SUM(out_qty), 0) AS stock_out_qty
		FROM flows
		GROUP BY month
		ORDER BY month ASC
	`

	type flowRow struct {
		Month       string `db:"month"`
		StockInQty  int64  `db:"stock_in_qty"`
		StockOutQty int64  `db:"stock_out_qty"`
	}

	var rows []flowRow
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &rows, sql, from, scopeArg(scope)); err != nil {
		return nil, fmt.Errorf("query monthly flow: %w", err)
	}

	points := make([]reports.MonthlyFlowPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, reports.MonthlyFlowPoint{
			Month:       row.Month,
			StockInQty:  types.Quantity(row.StockInQty),
			StockOutQty: types.Quantity(row.StockOutQty),
		})
	}
	return points, nil
}

// GetRecentMovements returns the newest batches of both kinds, merged.
func (r *ReportRepo) GetRecentMovements(ctx context.Context, limit int, scope reports.Scope) ([]reports.RecentMovement, error) {
	sql := `
		SELECT * FROM (
			SELECT 'stock_in' AS kind, b.id, b.reference_number, w.name AS warehouse_name,
			       b.status, b.total_quantity, b.total_amount, b.date, b.created_by
			FROM stock_in_batches b
			JOIN warehouses w ON w.id = b.warehouse_id
			WHERE b.deleted_at IS NULL
			  AND ($2::text IS NULL OR b.created_by = $2)
			UNION ALL
			SELECT 'stock_out' AS kind, b.id, b.reference_number, w.name AS warehouse_name,
			       b.status, b.total_quantity, b.total_amount, b.date, b.created_by
			FROM stock_out_batches b
			JOIN warehouses w ON w.id = b.warehouse_id
			WHERE b.deleted_at IS NULL
			  AND ($2::text IS NULL OR b.created_by = $2)
		) m
		ORDER BY m.date DESC, m.reference_number DESC
		LIMIT $1
	`

	rows := make([]reports.RecentMovement, 0, limit)
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &rows, sql, limit, scopeArg(scope)); err != nil {
		return nil, fmt.Errorf("query recent movements: %w", err)
	}
	return rows, nil
}
