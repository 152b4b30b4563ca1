// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/domain/auth"
	"stockyard/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Options(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Restore(c *gin.Context)
	ToggleStatus(c *gin.Context)

	HasToggle() bool
	HasOptions() bool
}

// MovementRouteHandler defines the interface for movement batch handlers.
// All movement handlers must implement these methods.
type MovementRouteHandler interface {
	List(c *gin.Context)
	ListTrashed(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	GetByReference(c *gin.Context)
	Update(c *gin.Context)
	Approve(c *gin.Context)
	Reject(c *gin.Context)
	Delete(c *gin.Context)
	Restore(c *gin.Context)
	ForceDelete(c *gin.Context)
	Statistics(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// Reads are open to any authenticated user; writes require the stock
// manager role (admins pass every check).
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	manage := middleware.RequireRole(auth.RoleStockManager)

	group.GET("", handler.List)
	group.POST("", manage, handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", manage, handler.Update)
	group.DELETE("/:id", manage, handler.Delete)
	group.POST("/:id/restore", manage, handler.Restore)

	if handler.HasOptions() {
		group.GET("/options", handler.Options)
	}
	if handler.HasToggle() {
		group.POST("/:id/toggle-status", manage, handler.ToggleStatus)
	}
}

// RegisterMovementRoutes registers the batch workflow routes for a
// movement kind. Executives create and edit their pending batches;
// approval and the trash bin belong to managers; permanent removal is
// admin only.
func RegisterMovementRoutes(group *gin.RouterGroup, handler MovementRouteHandler) {
	submit := middleware.RequireRole(auth.RoleStockManager, auth.RoleStockExecutive)
	manage := middleware.RequireRole(auth.RoleStockManager)

	group.GET("", handler.List)
	group.GET("/trashed", manage, handler.ListTrashed)
	group.GET("/statistics", handler.Statistics)
	group.GET("/reference/:reference", handler.GetByReference)
	group.POST("", submit, handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", submit, handler.Update)
	group.POST("/:id/approve", manage, handler.Approve)
	group.POST("/:id/reject", manage, handler.Reject)
	group.DELETE("/:id", submit, handler.Delete)
	group.POST("/:id/restore", manage, handler.Restore)
	group.DELETE("/:id/force", middleware.RequireAdmin(), handler.ForceDelete)
}
