package dto

import (
	"github.com/shopspring/decimal"

	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   *string         `json:"description"`
	CategoryID    string          `json:"categoryId" binding:"required"`
	UnitID        string          `json:"unitId" binding:"required"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	MinStockLevel float64         `json:"minStockLevel" binding:"gte=0"`
	MaxStockLevel float64         `json:"maxStockLevel" binding:"gte=0"`
	Barcode       *string         `json:"barcode"`
	ImageURL      *string         `json:"imageUrl"`
	IsActive      *bool           `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
// Malformed reference IDs become nil and are rejected by Validate.
func (r *CreateProductRequest) ToEntity() *product.Product {
	categoryID, _ := id.Parse(r.CategoryID)
	unitID, _ := id.Parse(r.UnitID)

	p := product.NewProduct(r.SKU, r.Name, categoryID, unitID)
	p.Description = r.Description
	p.CostPrice = r.CostPrice
	p.SellingPrice = r.SellingPrice
	p.MinStockLevel = types.NewQuantityFromFloat64(r.MinStockLevel)
	p.MaxStockLevel = types.NewQuantityFromFloat64(r.MaxStockLevel)
	p.Barcode = r.Barcode
	p.ImageURL = r.ImageURL
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return p
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   *string         `json:"description"`
	CategoryID    string          `json:"categoryId" binding:"required"`
	UnitID        string          `json:"unitId" binding:"required"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	MinStockLevel float64         `json:"minStockLevel" binding:"gte=0"`
	MaxStockLevel float64         `json:"maxStockLevel" binding:"gte=0"`
	Barcode       *string         `json:"barcode"`
	ImageURL      *string         `json:"imageUrl"`
	IsActive      bool            `json:"isActive"`
	Version       int             `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	categoryID, _ := id.Parse(r.CategoryID)
	unitID, _ := id.Parse(r.UnitID)

	p.SKU = r.SKU
	p.Code = r.SKU
	p.Name = r.Name
	p.Description = r.Description
	p.CategoryID = categoryID
	p.UnitID = unitID
	p.CostPrice = r.CostPrice
	p.SellingPrice = r.SellingPrice
	p.MinStockLevel = types.NewQuantityFromFloat64(r.MinStockLevel)
	p.MaxStockLevel = types.NewQuantityFromFloat64(r.MaxStockLevel)
	p.Barcode = r.Barcode
	p.ImageURL = r.ImageURL
	p.IsActive = r.IsActive
	p.Version = r.Version
}

// --- Response DTOs ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	CategoryID    string          `json:"categoryId"`
	UnitID        string          `json:"unitId"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	MinStockLevel float64         `json:"minStockLevel"`
	MaxStockLevel float64         `json:"maxStockLevel"`
	Barcode       *string         `json:"barcode,omitempty"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
	IsActive      bool            `json:"isActive"`
	DeletionMark  bool            `json:"deletionMark"`
	Version       int             `json:"version"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID.String(),
		UnitID:        p.UnitID.String(),
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		MinStockLevel: p.MinStockLevel.Float64(),
		MaxStockLevel: p.MaxStockLevel.Float64(),
		Barcode:       p.Barcode,
		ImageURL:      p.ImageURL,
		IsActive:      p.IsActive,
		DeletionMark:  p.DeletionMark,
		Version:       p.Version,
	}
}
