// Package category provides the Category catalog.
// Categories group products for navigation and reporting.
package category

import (
	"context"

	"stockyard/internal/core/entity"
)

// Category represents a product category.
type Category struct {
	entity.Catalog

	// Description is a free-form note
	Description *string `db:"description" json:"description,omitempty"`

	// IsActive indicates if the category can be assigned to products
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewCategory creates a new Category with required fields.
func NewCategory(code, name string) *Category {
	return &Category{
		Catalog:  entity.NewCatalog(code, name),
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	return c.Catalog.Validate(ctx)
}
