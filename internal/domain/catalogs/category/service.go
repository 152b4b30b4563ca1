package category

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
)

// ProductCounter reports how many products reference a category.
// Implemented by the product repository.
type ProductCounter interface {
	CountByCategory(ctx context.Context, categoryID id.ID) (int64, error)
}

// Service provides business logic for the Category catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Category]
	repo     Repository
	products ProductCounter
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager, products ProductCounter) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "category",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		products:       products,
	}

	base.Hooks().OnBeforeDelete(svc.checkNoProducts)

	return svc
}

// checkNoProducts blocks deletion while products still reference the category.
func (s *Service) checkNoProducts(ctx context.Context, c *Category) error {
	if s.products == nil {
		return nil
	}
	count, err := s.products.CountByCategory(ctx, c.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewInvalidState("category is referenced by existing products").
			WithDetail("category_id", c.ID.String()).
			WithDetail("product_count", count)
	}
	return nil
}

// ToggleActive flips the active flag.
func (s *Service) ToggleActive(ctx context.Context, categoryID id.ID) (*Category, error) {
	c, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, categoryID, !c.IsActive); err != nil {
		return nil, err
	}
	c.IsActive = !c.IsActive
	return c, nil
}
