package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/domain"
	"stockyard/internal/domain/movements"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// MovementService is the surface both batch services expose.
type MovementService[B any] interface {
	Create(ctx context.Context, batch B) error
	GetByID(ctx context.Context, batchID id.ID) (B, error)
	GetByReference(ctx context.Context, reference string) (B, error)
	Update(ctx context.Context, batch B) error
	Approve(ctx context.Context, batchID id.ID) (B, error)
	Reject(ctx context.Context, batchID id.ID, reason string) (B, error)
	Delete(ctx context.Context, batchID id.ID) error
	Restore(ctx context.Context, batchID id.ID) (B, error)
	ForceDelete(ctx context.Context, batchID id.ID) error
	List(ctx context.Context, filter movements.ListFilter) (domain.ListResult[B], error)
	ListTrashed(ctx context.Context, filter movements.ListFilter) (domain.ListResult[B], error)
	Statistics(ctx context.Context) (movements.Statistics, error)
}

// MovementHandler provides generic HTTP handlers for movement batches.
// Both stock-in and stock-out share the workflow surface; only the
// request/response shapes differ.
type MovementHandler[B any, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    MovementService[B]
	entityName string

	mapCreateDTO func(dto CreateDTO) B
	mapUpdateDTO func(dto UpdateDTO, existing B)
	mapToDTO     func(batch B) any
}

// MovementHandlerConfig configures the movement handler.
type MovementHandlerConfig[B any, CreateDTO any, UpdateDTO any] struct {
	Service      MovementService[B]
	EntityName   string
	MapCreateDTO func(dto CreateDTO) B
	MapUpdateDTO func(dto UpdateDTO, existing B)
	MapToDTO     func(batch B) any
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler[B any, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg MovementHandlerConfig[B, CreateDTO, UpdateDTO],
) *MovementHandler[B, CreateDTO, UpdateDTO] {
	return &MovementHandler[B, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		entityName:   cfg.EntityName,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
		mapToDTO:     cfg.MapToDTO,
	}
}

// parseFilter builds a movement list filter from query parameters.
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) parseFilter(c *gin.Context) movements.ListFilter {
	filter := movements.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")

	if status := c.Query("status"); status != "" {
		s := entity.MovementStatus(status)
		if s.Valid() {
			filter.Status = &s
		}
	}

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		if parsed, err := id.Parse(warehouseID); err == nil {
			filter.WarehouseID = &parsed
		}
	}

	if createdBy := c.Query("createdBy"); createdBy != "" {
		filter.CreatedBy = &createdBy
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	return filter
}

func (h *MovementHandler[B, CreateDTO, UpdateDTO]) respondList(c *gin.Context, result domain.ListResult[B]) {
	items := make([]any, len(result.Items))
	for i, batch := range result.Items {
		items[i] = h.mapToDTO(batch)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// List handles GET /{kind} - list batches with filtering.
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.respondList(c, result)
}

// ListTrashed handles GET /{kind}/trashed - list soft-deleted batches.
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) ListTrashed(c *gin.Context) {
	result, err := h.service.ListTrashed(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.respondList(c, result)
}

// Create handles POST /{kind} - create a pending batch.
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	batch := h.mapCreateDTO(req)

	if err := h.service.Create(ctx, batch); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.mapToDTO(batch))
}

// Get handles GET /{kind}/:id - get a single batch with lines.
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	batch, err := h.service.GetByID(ctx, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(batch))
}

// GetByReference handles GET /{kind}/reference/:reference
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) GetByReference(c *gin.Context) {
	ctx := c.Request.Context()

	batch, err := h.service.GetByReference(ctx, c.Param("reference"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(batch))
}

// Update handles PUT /{kind}/:id - pending-only full update.
// The submitted items replace the entire line set.
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	batch, err := h.service.GetByID(ctx, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.mapUpdateDTO(req, batch)

	if err := h.service.Update(ctx, batch); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(batch))
}

// Approve handles POST /{kind}/:id/approve - pending to approved,
// applying the batch to stock balances atomically.
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) Approve(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	batch, err := h.service.Approve(ctx, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(batch))
}

// Reject handles POST /{kind}/:id/reject - pending to rejected.
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) Reject(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.RejectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	batch, err := h.service.Reject(ctx, batchID, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(batch))
}

// Delete handles DELETE /{kind}/:id - soft delete (pending or rejected only).
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, batchID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Restore handles POST /{kind}/:id/restore - undo a soft delete.
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) Restore(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	batch, err := h.service.Restore(ctx, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(batch))
}

// ForceDelete handles DELETE /{kind}/:id/force - permanently remove a
// soft-deleted batch and its lines.
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) ForceDelete(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.ForceDelete(ctx, batchID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Statistics handles GET /{kind}/statistics
func (h *MovementHandler[B, CreateDTO, UpdateDTO]) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStatistics(stats))
}
