package handlers

import (
	"stockyard/internal/domain/catalogs/category"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// CategoryHTTPHandler is the configured generic handler for categories.
type CategoryHTTPHandler = CatalogHandler[
	*category.Category,
	dto.CreateCategoryRequest,
	dto.UpdateCategoryRequest,
]

// NewCategoryHandler creates a configured generic handler for categories.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHTTPHandler {
	config := CatalogHandlerConfig[
		*category.Category,
		dto.CreateCategoryRequest,
		dto.UpdateCategoryRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "category",

		MapCreateDTO: func(req dto.CreateCategoryRequest) *category.Category {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateCategoryRequest, existing *category.Category) *category.Category {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *category.Category) any {
			return dto.FromCategory(entity)
		},

		ToggleActive: service.ToggleActive,
		MapToOption: func(entity *category.Category) dto.OptionResponse {
			return dto.OptionResponse{ID: entity.ID.String(), Label: entity.Name}
		},
	}

	return NewCatalogHandler(base, config)
}
