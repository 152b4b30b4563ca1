package handlers

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// ProductHandler extends the generic catalog handler with SKU lookup.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
}

// NewProductHandler creates a configured product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	config := CatalogHandlerConfig[
		*product.Product,
		dto.CreateProductRequest,
		dto.UpdateProductRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "product",

		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *product.Product) any {
			return dto.FromProduct(entity)
		},

		ToggleActive: service.ToggleActive,
		MapToOption: func(entity *product.Product) dto.OptionResponse {
			return dto.OptionResponse{ID: entity.ID.String(), Label: entity.SKU + " " + entity.Name}
		},
	}

	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// GetBySKU handles GET /catalog/products/sku/:sku
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.service.GetBySKU(ctx, c.Param("sku"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}
