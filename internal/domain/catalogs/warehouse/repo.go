package warehouse

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]

	// SetActive toggles the active flag.
	SetActive(ctx context.Context, id id.ID, active bool) error
}
