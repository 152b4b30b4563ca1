package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockyard/internal/domain/reports"
)

// ReportsHandler handles reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetDashboard handles GET /reports/dashboard
// Stock executives see only their own pending counts and recent
// movements; managers and admins see everything plus low stock alerts.
func (h *ReportsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
