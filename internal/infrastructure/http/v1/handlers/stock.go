package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock balance endpoints.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetBalances handles GET /stock/balances
func (h *StockHandler) GetBalances(c *gin.Context) {
	ctx := c.Request.Context()

	filter := ledger.BalanceFilter{
		ExcludeZero: c.Query("excludeZero") == "true",
		Limit:       h.ParseIntQuery(c, "limit", 50),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	if productID := c.Query("productId"); productID != "" {
		if parsed, err := id.Parse(productID); err == nil {
			filter.ProductID = &parsed
		}
	}

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		if parsed, err := id.Parse(warehouseID); err == nil {
			filter.WarehouseID = &parsed
		}
	}

	rows, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// GetBalance handles GET /stock/balances/:productId/:warehouseId
// A pair with no ledger row reads as a zero balance.
func (h *StockHandler) GetBalance(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	warehouseID, err := id.Parse(c.Param("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId format"))
		return
	}

	balance, err := h.service.GetBalance(ctx, productID, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetLowStock handles GET /stock/low
func (h *StockHandler) GetLowStock(c *gin.Context) {
	ctx := c.Request.Context()

	limit := h.ParseIntQuery(c, "limit", 50)

	rows, err := h.service.GetLowStock(ctx, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// parseReservation binds and converts a reservation request.
func (h *StockHandler) parseReservation(c *gin.Context) (productID, warehouseID id.ID, qty types.Quantity, ok bool) {
	var req dto.ReservationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	warehouseID, err = id.Parse(req.WarehouseID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId format"))
		return
	}

	return productID, warehouseID, types.NewQuantityFromFloat64(req.Quantity), true
}

// Reserve handles POST /stock/reserve - hold available stock.
func (h *StockHandler) Reserve(c *gin.Context) {
	ctx := c.Request.Context()

	productID, warehouseID, qty, ok := h.parseReservation(c)
	if !ok {
		return
	}

	if err := h.service.Reserve(ctx, productID, warehouseID, qty); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock reserved")
}

// Release handles POST /stock/release - release a previous hold.
func (h *StockHandler) Release(c *gin.Context) {
	ctx := c.Request.Context()

	productID, warehouseID, qty, ok := h.parseReservation(c)
	if !ok {
		return
	}

	if err := h.service.Release(ctx, productID, warehouseID, qty); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock released")
}

// RegisterRoutes registers stock balance routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/balances", h.GetBalances)
	rg.GET("/balances/:productId/:warehouseId", h.GetBalance)
	rg.GET("/low", h.GetLowStock)
	rg.POST("/reserve", h.Reserve)
	rg.POST("/release", h.Release)
}
