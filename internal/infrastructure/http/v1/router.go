// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockyard/internal/domain/auth"
	"stockyard/internal/domain/catalogs/category"
	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/domain/catalogs/unit"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/domain/movements/stockin"
	"stockyard/internal/domain/movements/stockout"
	"stockyard/internal/domain/reports"
	"stockyard/internal/infrastructure/http/v1/handlers"
	"stockyard/internal/infrastructure/http/v1/middleware"
	"stockyard/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *pgxpool.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Domain services
	AuthService      *auth.Service
	CategoryService  *category.Service
	UnitService      *unit.Service
	WarehouseService *warehouse.Service
	ProductService   *product.Service
	StockInService   *stockin.Service
	StockOutService  *stockout.Service
	LedgerService    *ledger.Service
	ReportsService   *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Protected endpoints
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerUserRoutes(protected, cfg)
		registerCatalogRoutes(protected, cfg)
		registerMovementRoutes(protected, cfg)
		registerStockRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerUserRoutes registers user administration endpoints (admin only).
func registerUserRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	userHandler := handlers.NewUserHandler(baseHandler, cfg.AuthService)

	users := rg.Group("/users")
	users.Use(middleware.RequireAdmin())
	userHandler.RegisterRoutes(users)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	RegisterCatalogRoutes(catalogs.Group("/categories"), handlers.NewCategoryHandler(baseHandler, cfg.CategoryService))
	RegisterCatalogRoutes(catalogs.Group("/units"), handlers.NewUnitHandler(baseHandler, cfg.UnitService))
	RegisterCatalogRoutes(catalogs.Group("/warehouses"), handlers.NewWarehouseHandler(baseHandler, cfg.WarehouseService))

	// Products get the extra SKU lookup on top of the standard set
	productHandler := handlers.NewProductHandler(baseHandler, cfg.ProductService)
	productsGroup := catalogs.Group("/products")
	RegisterCatalogRoutes(productsGroup, productHandler)
	productsGroup.GET("/sku/:sku", productHandler.GetBySKU)
}

// registerMovementRoutes registers the batch workflow endpoints.
func registerMovementRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	RegisterMovementRoutes(rg.Group("/stock-in"), handlers.NewStockInHandler(baseHandler, cfg.StockInService))
	RegisterMovementRoutes(rg.Group("/stock-out"), handlers.NewStockOutHandler(baseHandler, cfg.StockOutService))
}

// registerStockRoutes registers stock balance endpoints.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	stockHandler := handlers.NewStockHandler(baseHandler, cfg.LedgerService)

	stockGroup := rg.Group("/stock")
	stockHandler.RegisterRoutes(stockGroup)
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	reportsHandler := handlers.NewReportsHandler(baseHandler, cfg.ReportsService)

	rg.GET("/reports/dashboard", reportsHandler.GetDashboard)
}
