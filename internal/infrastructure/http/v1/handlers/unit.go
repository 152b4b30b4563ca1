package handlers

import (
	"stockyard/internal/domain/catalogs/unit"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// UnitHTTPHandler is the configured generic handler for units.
type UnitHTTPHandler = CatalogHandler[
	*unit.Unit,
	dto.CreateUnitRequest,
	dto.UpdateUnitRequest,
]

// NewUnitHandler creates a configured generic handler for units.
func NewUnitHandler(base *BaseHandler, service *unit.Service) *UnitHTTPHandler {
	config := CatalogHandlerConfig[
		*unit.Unit,
		dto.CreateUnitRequest,
		dto.UpdateUnitRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "unit",

		MapCreateDTO: func(req dto.CreateUnitRequest) *unit.Unit {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateUnitRequest, existing *unit.Unit) *unit.Unit {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *unit.Unit) any {
			return dto.FromUnit(entity)
		},

		MapToOption: func(entity *unit.Unit) dto.OptionResponse {
			return dto.OptionResponse{ID: entity.ID.String(), Label: entity.Name + " (" + entity.Symbol + ")"}
		},
	}

	return NewCatalogHandler(base, config)
}
