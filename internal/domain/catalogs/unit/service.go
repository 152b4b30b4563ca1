package unit

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
)

// ProductCounter reports how many products reference a unit.
// Implemented by the product repository.
type ProductCounter interface {
	CountByUnit(ctx context.Context, unitID id.ID) (int64, error)
}

// Service provides business logic for the Unit catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Unit]
	repo     Repository
	products ProductCounter
}

// NewService creates a new Unit service.
func NewService(repo Repository, txManager tx.Manager, products ProductCounter) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Unit]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "unit",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		products:       products,
	}

	base.Hooks().OnBeforeDelete(svc.checkNoProducts)

	return svc
}

// checkNoProducts blocks deletion while products still reference the unit.
func (s *Service) checkNoProducts(ctx context.Context, u *Unit) error {
	if s.products == nil {
		return nil
	}
	count, err := s.products.CountByUnit(ctx, u.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewInvalidState("unit is referenced by existing products").
			WithDetail("unit_id", u.ID.String()).
			WithDetail("product_count", count)
	}
	return nil
}
