package product

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetBySKU retrieves a product by its SKU.
	GetBySKU(ctx context.Context, sku string) (*Product, error)

	// ExistsBySKU checks SKU uniqueness.
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// SetActive toggles the active flag.
	SetActive(ctx context.Context, id id.ID, active bool) error

	// CountByCategory counts products referencing a category.
	CountByCategory(ctx context.Context, categoryID id.ID) (int64, error)

	// CountByUnit counts products referencing a unit.
	CountByUnit(ctx context.Context, unitID id.ID) (int64, error)
}
