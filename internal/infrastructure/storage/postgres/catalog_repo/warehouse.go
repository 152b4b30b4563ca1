package catalog_repo

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/infrastructure/storage/postgres"
)

const warehouseTable = "warehouses"

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*BaseCatalogRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			warehouseTable,
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}

// SetActive toggles the active flag.
func (r *WarehouseRepo) SetActive(ctx context.Context, warehouseID id.ID, active bool) error {
	return r.setFlag(ctx, warehouseID, "is_active", active)
}
