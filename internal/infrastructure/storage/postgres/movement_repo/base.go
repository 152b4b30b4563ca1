// Package movement_repo provides PostgreSQL implementations for stock
// movement batch repositories. A batch is stored as a header row plus a
// set of line rows; line replacement is delete+insert inside the caller's
// transaction.
package movement_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain"
	"stockyard/internal/domain/movements"
	"stockyard/internal/infrastructure/storage/postgres"
)

// BaseMovementRepo provides common persistence for movement batches.
// T is the header type, L the line type.
type BaseMovementRepo[T any, L any] struct {
	txManager *postgres.TxManager
	table     string
	lineTable string
	cols      []string
	lineCols  []string
	// searchCols are ILIKE'd against the listing search term
	searchCols []string
	newFn      func() T
	// lineValues maps a line to values matching lineCols
	lineValues func(batchID id.ID, line L) []any
}

// NewBaseMovementRepo creates a new base movement repository.
func NewBaseMovementRepo[T any, L any](
	txManager *postgres.TxManager,
	table, lineTable string,
	cols, lineCols, searchCols []string,
	newFn func() T,
	lineValues func(batchID id.ID, line L) []any,
) *BaseMovementRepo[T, L] {
	return &BaseMovementRepo[T, L]{
		txManager:  txManager,
		table:      table,
		lineTable:  lineTable,
		cols:       cols,
		lineCols:   lineCols,
		searchCols: searchCols,
		newFn:      newFn,
		lineValues: lineValues,
	}
}

func (r *BaseMovementRepo[T, L]) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseMovementRepo[T, L]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *BaseMovementRepo[T, L]) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(r.cols...).From(r.table)
}

// Create inserts the header row.
func (r *BaseMovementRepo[T, L]) Create(ctx context.Context, batch T) error {
	data := postgres.StructToMap(batch)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in batch")
	}

	filteredData := make(map[string]any, len(r.cols))
	for _, col := range r.cols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.builder().Insert(r.table).SetMap(filteredData).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.table, err)
	}
	return nil
}

// Update rewrites the header row with optimistic locking.
func (r *BaseMovementRepo[T, L]) Update(ctx context.Context, batch T) error {
	data := postgres.StructToMap(batch)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in batch")
	}

	batchID, ok := data["id"]
	if !ok {
		return fmt.Errorf("batch has no 'id' field with db tag")
	}
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("batch has no 'version' field or it is not an int")
	}

	filteredData := make(map[string]any, len(r.cols))
	for _, col := range r.cols {
		if col == "id" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Update(r.table).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": batchID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.table, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.table, batchID)
	}
	return nil
}

// GetByID retrieves the header by ID, soft-deleted included.
func (r *BaseMovementRepo[T, L]) GetByID(ctx context.Context, batchID id.ID) (T, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": batchID}).Limit(1), batchID.String())
}

// GetByReference retrieves the header by reference number.
func (r *BaseMovementRepo[T, L]) GetByReference(ctx context.Context, reference string) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"reference_number": reference}).
		Where(squirrel.Eq{"deleted_at": nil}).
		Limit(1)
	return r.getOne(ctx, q, reference)
}

// GetForUpdate retrieves the header with a row lock. Must run inside a
// transaction; the lock serializes concurrent approvals of the same batch.
func (r *BaseMovementRepo[T, L]) GetForUpdate(ctx context.Context, batchID id.ID) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": batchID}).
		Suffix("FOR UPDATE")
	return r.getOne(ctx, q, batchID.String())
}

func (r *BaseMovementRepo[T, L]) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (T, error) {
	batch := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return batch, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), batch, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return batch, apperror.NewNotFound(r.table, key)
		}
		return batch, fmt.Errorf("get %s: %w", r.table, err)
	}
	return batch, nil
}

// ForceDelete removes the header and its lines permanently.
func (r *BaseMovementRepo[T, L]) ForceDelete(ctx context.Context, batchID id.ID) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.deleteLines(ctx, batchID); err != nil {
			return err
		}

		sql, args, err := r.builder().Delete(r.table).Where(squirrel.Eq{"id": batchID}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}

		result, err := r.querier(ctx).Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("delete %s: %w", r.table, err)
		}
		if result.RowsAffected() == 0 {
			return apperror.NewNotFound(r.table, batchID.String())
		}
		return nil
	})
}

// GetLines retrieves lines ordered by line number.
func (r *BaseMovementRepo[T, L]) GetLines(ctx context.Context, batchID id.ID) ([]L, error) {
	q := r.builder().
		Select(r.lineCols...).
		From(r.lineTable).
		Where(squirrel.Eq{"batch_id": batchID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := make([]L, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// SaveLines replaces the entire line set for a batch.
func (r *BaseMovementRepo[T, L]) SaveLines(ctx context.Context, batchID id.ID, lines []L) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.deleteLines(ctx, batchID); err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}

		cols := append([]string{"batch_id"}, r.lineCols...)
		q := r.builder().Insert(r.lineTable).Columns(cols...)
		for _, line := range lines {
			q = q.Values(append([]any{batchID}, r.lineValues(batchID, line)...)...)
		}

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build insert lines: %w", err)
		}

		if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert lines: %w", err)
		}
		return nil
	})
}

func (r *BaseMovementRepo[T, L]) deleteLines(ctx context.Context, batchID id.ID) error {
	sql, args, err := r.builder().Delete(r.lineTable).Where(squirrel.Eq{"batch_id": batchID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return nil
}

// List retrieves headers with filtering and pagination.
func (r *BaseMovementRepo[T, L]) List(ctx context.Context, filter movements.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.OnlyTrashed {
		q = q.Where(squirrel.NotEq{"deleted_at": nil})
	} else {
		q = q.Where(squirrel.Eq{"deleted_at": nil})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.CreatedBy != nil {
		q = q.Where(squirrel.Eq{"created_by": *filter.CreatedBy})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		or := make(squirrel.Or, 0, len(r.searchCols))
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy, "reference_number DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}

// parseOrderBy maps a "field" / "-field" sort expression onto a header
// column. Only known columns pass; anything else is a validation error.
func (r *BaseMovementRepo[T, L]) parseOrderBy(orderBy string) (string, error) {
	allowed := make(map[string]struct{}, len(r.cols))
	for _, col := range r.cols {
		allowed[col] = struct{}{}
	}

	if orderBy == "" {
		return "date DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	return field + " " + direction, nil
}

// HasMovements reports whether any line references the product.
func (r *BaseMovementRepo[T, L]) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	q := r.builder().
		Select("1").
		From(r.lineTable).
		Where(squirrel.Eq{"product_id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has movements: %w", err)
	}
	return true, nil
}

// GetStatistics summarizes live batches by status.
func (r *BaseMovementRepo[T, L]) GetStatistics(ctx context.Context) (movements.Statistics, error) {
	var stats movements.Statistics

	sql := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_count,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved_count,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected_count,
			COUNT(*) FILTER (WHERE date >= date_trunc('day', now())) AS today_count,
			COALESCE(SUM(total_quantity) FILTER (WHERE status = 'approved'), 0) AS approved_qty,
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'approved'), 0) AS approved_total
		FROM %s
		WHERE deleted_at IS NULL
	`, r.table)

	err := r.querier(ctx).QueryRow(ctx, sql).Scan(
		&stats.TotalCount,
		&stats.PendingCount,
		&stats.ApprovedCount,
		&stats.RejectedCount,
		&stats.TodayCount,
		&stats.ApprovedQty,
		&stats.ApprovedTotal,
	)
	if err != nil {
		return stats, fmt.Errorf("get statistics: %w", err)
	}
	return stats, nil
}
