// Package product provides the Product catalog.
// Products are the items tracked by stock movements and balances.
package product

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// Product represents a stock-tracked item.
type Product struct {
	entity.Catalog

	// SKU is the unique stock keeping unit identifier
	SKU string `db:"sku" json:"sku"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`

	// CategoryID is the reference to the product category
	CategoryID id.ID `db:"category_id" json:"categoryId"`

	// UnitID is the reference to the unit of measure
	UnitID id.ID `db:"unit_id" json:"unitId"`

	// CostPrice is the purchase price per unit
	CostPrice types.Money `db:"cost_price" json:"costPrice"`

	// SellingPrice is the sale price per unit
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// MinStockLevel triggers low-stock alerts when total stock falls below it
	MinStockLevel types.Quantity `db:"min_stock_level" json:"minStockLevel"`

	// MaxStockLevel is the advisory upper bound for stock planning
	MaxStockLevel types.Quantity `db:"max_stock_level" json:"maxStockLevel"`

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// ImageURL is the item image URL
	ImageURL *string `db:"image_url" json:"imageUrl,omitempty"`

	// IsActive indicates if the product can appear on new movements
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(sku, name string, categoryID, unitID id.ID) *Product {
	return &Product{
		Catalog:    entity.NewCatalog(sku, name),
		SKU:        sku,
		CategoryID: categoryID,
		UnitID:     unitID,
		IsActive:   true,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}

	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("category is required").
			WithDetail("field", "categoryId")
	}

	if id.IsNil(p.UnitID) {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unitId")
	}

	if p.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price cannot be negative").
			WithDetail("field", "costPrice")
	}

	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").
			WithDetail("field", "sellingPrice")
	}

	if p.MinStockLevel.IsNegative() || p.MaxStockLevel.IsNegative() {
		return apperror.NewValidation("stock levels cannot be negative").
			WithDetail("field", "minStockLevel")
	}

	if !p.MaxStockLevel.IsZero() && p.MinStockLevel > p.MaxStockLevel {
		return apperror.NewValidation("min stock level cannot exceed max stock level").
			WithDetail("field", "minStockLevel")
	}

	return nil
}

// CanMove returns true if the product may appear on a new movement batch.
func (p *Product) CanMove() bool {
	return p.IsActive && !p.DeletionMark
}
