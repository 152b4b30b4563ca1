package dto

import (
	"stockyard/internal/domain/catalogs/warehouse"
)

// --- Request DTOs ---

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Address     *string `json:"address"`
	ManagerID   *string `json:"managerId"`
	Capacity    *int64  `json:"capacity"`
	IsActive    *bool   `json:"isActive"`
	Description *string `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	w := warehouse.NewWarehouse(r.Code, r.Name)
	w.Address = r.Address
	w.ManagerID = r.ManagerID
	w.Capacity = r.Capacity
	w.Description = r.Description
	if r.IsActive != nil {
		w.IsActive = *r.IsActive
	}
	return w
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Address     *string `json:"address"`
	ManagerID   *string `json:"managerId"`
	Capacity    *int64  `json:"capacity"`
	IsActive    bool    `json:"isActive"`
	Description *string `json:"description"`
	Version     int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(w *warehouse.Warehouse) {
	w.Code = r.Code
	w.Name = r.Name
	w.Address = r.Address
	w.ManagerID = r.ManagerID
	w.Capacity = r.Capacity
	w.IsActive = r.IsActive
	w.Description = r.Description
	w.Version = r.Version
}

// --- Response DTOs ---

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Address      *string `json:"address,omitempty"`
	ManagerID    *string `json:"managerId,omitempty"`
	Capacity     *int64  `json:"capacity,omitempty"`
	IsActive     bool    `json:"isActive"`
	Description  *string `json:"description,omitempty"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromWarehouse creates response DTO from domain entity.
func FromWarehouse(w *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:           w.ID.String(),
		Code:         w.Code,
		Name:         w.Name,
		Address:      w.Address,
		ManagerID:    w.ManagerID,
		Capacity:     w.Capacity,
		IsActive:     w.IsActive,
		Description:  w.Description,
		DeletionMark: w.DeletionMark,
		Version:      w.Version,
	}
}
