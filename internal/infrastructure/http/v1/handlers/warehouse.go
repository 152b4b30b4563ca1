package handlers

import (
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// WarehouseHTTPHandler is the configured generic handler for warehouses.
type WarehouseHTTPHandler = CatalogHandler[
	*warehouse.Warehouse,
	dto.CreateWarehouseRequest,
	dto.UpdateWarehouseRequest,
]

// NewWarehouseHandler creates a configured generic handler for warehouses.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHTTPHandler {
	config := CatalogHandlerConfig[
		*warehouse.Warehouse,
		dto.CreateWarehouseRequest,
		dto.UpdateWarehouseRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "warehouse",

		MapCreateDTO: func(req dto.CreateWarehouseRequest) *warehouse.Warehouse {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) *warehouse.Warehouse {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *warehouse.Warehouse) any {
			return dto.FromWarehouse(entity)
		},

		ToggleActive: service.ToggleActive,
		MapToOption: func(entity *warehouse.Warehouse) dto.OptionResponse {
			return dto.OptionResponse{ID: entity.ID.String(), Label: entity.Name}
		},
	}

	return NewCatalogHandler(base, config)
}
