package warehouse

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
)

// StockChecker reports whether a warehouse still holds stock.
// Implemented by the ledger repository.
type StockChecker interface {
	HasPositiveStock(ctx context.Context, warehouseID id.ID) (bool, error)
}

// Service provides business logic for the Warehouse catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo  Repository
	stock StockChecker
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txManager tx.Manager, stock StockChecker) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "warehouse",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		stock:          stock,
	}

	base.Hooks().OnBeforeDelete(svc.checkNoStock)

	return svc
}

// checkNoStock blocks deletion while the warehouse holds positive stock.
func (s *Service) checkNoStock(ctx context.Context, w *Warehouse) error {
	if s.stock == nil {
		return nil
	}
	held, err := s.stock.HasPositiveStock(ctx, w.ID)
	if err != nil {
		return err
	}
	if held {
		return apperror.NewInvalidState("warehouse still holds stock and cannot be deleted").
			WithDetail("warehouse_id", w.ID.String())
	}
	return nil
}

// ToggleActive flips the active flag.
func (s *Service) ToggleActive(ctx context.Context, warehouseID id.ID) (*Warehouse, error) {
	w, err := s.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, warehouseID, !w.IsActive); err != nil {
		return nil, err
	}
	w.IsActive = !w.IsActive
	return w, nil
}
