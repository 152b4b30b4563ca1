package catalog_repo

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain/catalogs/category"
	"stockyard/internal/infrastructure/storage/postgres"
)

const categoryTable = "categories"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			categoryTable,
			postgres.ExtractDBColumns[category.Category](),
			func() *category.Category { return &category.Category{} },
		),
	}
}

// SetActive toggles the active flag.
func (r *CategoryRepo) SetActive(ctx context.Context, categoryID id.ID, active bool) error {
	return r.setFlag(ctx, categoryID, "is_active", active)
}
