package category

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// Repository defines the interface for Category persistence.
type Repository interface {
	domain.CatalogRepository[*Category]

	// SetActive toggles the active flag.
	SetActive(ctx context.Context, id id.ID, active bool) error
}
