package product

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
)

// MovementChecker reports whether any movement lines reference a product.
// Implemented by the movement repositories.
type MovementChecker interface {
	HasMovements(ctx context.Context, productID id.ID) (bool, error)
}

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	movements []MovementChecker
}

// NewService creates a new Product service.
// movements carries one checker per movement kind (stock-in, stock-out).
func NewService(repo Repository, txManager tx.Manager, movements ...MovementChecker) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		movements:      movements,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeDelete(svc.checkNoMovements)

	return svc
}

// prepareForCreate enforces SKU uniqueness and fills the catalog code.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	exists, err := s.repo.ExistsBySKU(ctx, p.SKU)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("product", "sku", p.SKU)
	}

	if p.Code == "" {
		p.Code = p.SKU
	}
	return nil
}

// checkNoMovements blocks deletion while movement history exists.
func (s *Service) checkNoMovements(ctx context.Context, p *Product) error {
	for _, checker := range s.movements {
		has, err := checker.HasMovements(ctx, p.ID)
		if err != nil {
			return err
		}
		if has {
			return apperror.NewInvalidState("product has movement history and cannot be deleted").
				WithDetail("product_id", p.ID.String())
		}
	}
	return nil
}

// GetBySKU retrieves a product by SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, err
	}
	return p, nil
}

// ToggleActive flips the active flag.
func (s *Service) ToggleActive(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, productID, !p.IsActive); err != nil {
		return nil, err
	}
	p.IsActive = !p.IsActive
	return p, nil
}
