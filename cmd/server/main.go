// Package main is the entry point for the Stockyard API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockyard/internal/domain/auth"
	"stockyard/internal/domain/catalogs/category"
	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/domain/catalogs/unit"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/domain/movements"
	"stockyard/internal/domain/movements/stockin"
	"stockyard/internal/domain/movements/stockout"
	"stockyard/internal/domain/reports"
	"stockyard/internal/domain/workflow"
	v1 "stockyard/internal/infrastructure/http/v1"
	"stockyard/internal/infrastructure/storage/postgres"
	"stockyard/internal/infrastructure/storage/postgres/auth_repo"
	"stockyard/internal/infrastructure/storage/postgres/catalog_repo"
	"stockyard/internal/infrastructure/storage/postgres/ledger_repo"
	"stockyard/internal/infrastructure/storage/postgres/movement_repo"
	"stockyard/internal/infrastructure/storage/postgres/report_repo"
	"stockyard/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockyard server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	unitRepo := catalog_repo.NewUnitRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	stockInRepo := movement_repo.NewStockInRepo(txManager)
	stockOutRepo := movement_repo.NewStockOutRepo(txManager)
	balanceRepo := ledger_repo.NewBalanceRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	// --- Audit trail ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Auth ---
	jwtConfig := auth.DefaultJWTConfig(mustEnv("JWT_SECRET"))
	if ttl := getEnvDuration("JWT_ACCESS_TTL", 0); ttl > 0 {
		jwtConfig.AccessTokenTTL = ttl
	}
	jwtService := auth.NewJWTService(jwtConfig)
	authService := auth.NewService(userRepo, tokenRepo, jwtService, auth.DefaultServiceConfig())

	// --- Domain services ---
	ledgerService := ledger.NewService(balanceRepo, txManager)
	engine := workflow.NewEngine(ledgerService, txManager, auditService)
	refValidator := movements.NewRefValidator(warehouseRepo, productRepo)
	sequences := postgres.NewSequenceAllocator(txManager)

	categoryService := category.NewService(categoryRepo, txManager, productRepo)
	unitService := unit.NewService(unitRepo, txManager, productRepo)
	warehouseService := warehouse.NewService(warehouseRepo, txManager, balanceRepo)
	productService := product.NewService(productRepo, txManager, stockInRepo, stockOutRepo)

	stockInService := stockin.NewService(stockInRepo, sequences, refValidator, engine, txManager, auditService)
	stockOutService := stockout.NewService(stockOutRepo, sequences, refValidator, ledgerService, engine, txManager, auditService)
	reportsService := reports.NewService(reportRepo, ledgerService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool.Unwrap(),
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		CategoryService:  categoryService,
		UnitService:      unitService,
		WarehouseService: warehouseService,
		ProductService:   productService,
		StockInService:   stockInService,
		StockOutService:  stockOutService,
		LedgerService:    ledgerService,
		ReportsService:   reportsService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
