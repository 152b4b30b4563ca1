package movements

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/domain/catalogs/warehouse"
)

// RefValidator checks catalog references at batch creation and update time.
// Every referenced warehouse and product must exist and be active.
type RefValidator struct {
	warehouses warehouse.Repository
	products   product.Repository
}

// NewRefValidator creates a new RefValidator.
func NewRefValidator(warehouses warehouse.Repository, products product.Repository) *RefValidator {
	return &RefValidator{
		warehouses: warehouses,
		products:   products,
	}
}

// Warehouse resolves the warehouse and verifies it can take part in movements.
func (v *RefValidator) Warehouse(ctx context.Context, warehouseID id.ID) (*warehouse.Warehouse, error) {
	wh, err := v.warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("warehouse", warehouseID.String())
		}
		return nil, err
	}

	if !wh.CanAcceptStock() {
		return nil, apperror.NewValidation("warehouse is not active").
			WithDetail("warehouse_id", warehouseID.String())
	}

	return wh, nil
}

// Product resolves the product and verifies it can appear on movements.
func (v *RefValidator) Product(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, err := v.products.GetByID(ctx, productID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, err
	}

	if !p.CanMove() {
		return nil, apperror.NewValidation("product is not active").
			WithDetail("product_id", productID.String())
	}

	return p, nil
}
