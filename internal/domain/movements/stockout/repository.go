// Package stockout provides the stock-out batch repository contract.
package stockout

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
	"stockyard/internal/domain/movements"
)

// Repository defines persistence operations for stock-out batches.
type Repository interface {
	// Header operations
	Create(ctx context.Context, batch *Batch) error
	GetByID(ctx context.Context, batchID id.ID) (*Batch, error)
	GetByReference(ctx context.Context, reference string) (*Batch, error)
	GetForUpdate(ctx context.Context, batchID id.ID) (*Batch, error)
	Update(ctx context.Context, batch *Batch) error

	// ForceDelete permanently removes a soft-deleted batch with its lines.
	ForceDelete(ctx context.Context, batchID id.ID) error

	// Line operations
	GetLines(ctx context.Context, batchID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, batchID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter movements.ListFilter) (domain.ListResult[*Batch], error)

	// HasMovements reports whether any line references the product.
	HasMovements(ctx context.Context, productID id.ID) (bool, error)

	// GetStatistics summarizes batches by status.
	GetStatistics(ctx context.Context) (movements.Statistics, error)
}
