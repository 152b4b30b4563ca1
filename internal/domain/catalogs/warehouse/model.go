// Package warehouse provides the Warehouse catalog.
// Warehouses represent physical locations stock moves through.
package warehouse

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
)

// Warehouse represents a storage location for goods.
type Warehouse struct {
	entity.Catalog

	// Address is the physical address
	Address *string `db:"address" json:"address,omitempty"`

	// ManagerID is the user responsible for the warehouse
	ManagerID *string `db:"manager_id" json:"managerId,omitempty"`

	// Capacity is the nominal storage capacity (units), nil = unbounded
	Capacity *int64 `db:"capacity" json:"capacity,omitempty"`

	// IsActive indicates if warehouse is operational
	IsActive bool `db:"is_active" json:"isActive"`

	// Description is a free-form note
	Description *string `db:"description" json:"description,omitempty"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(code, name string) *Warehouse {
	return &Warehouse{
		Catalog:  entity.NewCatalog(code, name),
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}

	if w.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}

	if w.Capacity != nil && *w.Capacity < 0 {
		return apperror.NewValidation("capacity cannot be negative").
			WithDetail("field", "capacity")
	}

	return nil
}

// CanAcceptStock returns true if the warehouse can take part in movements.
func (w *Warehouse) CanAcceptStock() bool {
	return w.IsActive && !w.DeletionMark
}
