package dto

import (
	"stockyard/internal/domain/catalogs/category"
)

// --- Request DTOs ---

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ParentID    *string `json:"parentId"`
	IsActive    *bool   `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	c := category.NewCategory(r.Code, r.Name)
	c.Description = r.Description
	c.ParentID = r.ParentID
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
	return c
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ParentID    *string `json:"parentId"`
	IsActive    bool    `json:"isActive"`
	Version     int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCategoryRequest) ApplyTo(c *category.Category) {
	c.Code = r.Code
	c.Name = r.Name
	c.Description = r.Description
	c.ParentID = r.ParentID
	c.IsActive = r.IsActive
	c.Version = r.Version
}

// --- Response DTOs ---

// CategoryResponse is the response body for a category.
type CategoryResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	ParentID     *string `json:"parentId,omitempty"`
	IsActive     bool    `json:"isActive"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromCategory creates response DTO from domain entity.
func FromCategory(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:           c.ID.String(),
		Code:         c.Code,
		Name:         c.Name,
		Description:  c.Description,
		ParentID:     c.ParentID,
		IsActive:     c.IsActive,
		DeletionMark: c.DeletionMark,
		Version:      c.Version,
	}
}
