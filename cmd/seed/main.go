// Package main seeds a stockyard database with the baseline data a fresh
// installation needs: the admin account, base measurement units, a starter
// category tree and a default warehouse. Safe to run repeatedly.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"stockyard/internal/domain/auth"
	"stockyard/internal/domain/catalogs/category"
	"stockyard/internal/domain/catalogs/unit"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/infrastructure/storage/postgres"
	"stockyard/internal/infrastructure/storage/postgres/auth_repo"
	"stockyard/internal/infrastructure/storage/postgres/catalog_repo"
	"stockyard/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	seeder := &seeder{
		log:           log,
		userRepo:      auth_repo.NewUserRepo(txManager),
		categoryRepo:  catalog_repo.NewCategoryRepo(txManager),
		unitRepo:      catalog_repo.NewUnitRepo(txManager),
		warehouseRepo: catalog_repo.NewWarehouseRepo(txManager),
	}

	err = txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := seeder.seedAdmin(ctx); err != nil {
			return err
		}
		if err := seeder.seedUnits(ctx); err != nil {
			return err
		}
		if err := seeder.seedCategories(ctx); err != nil {
			return err
		}
		return seeder.seedWarehouse(ctx)
	})
	if err != nil {
		log.Fatalw("seed failed", "error", err)
	}

	log.Info("seed completed")
}

type seeder struct {
	log           *logger.Logger
	userRepo      *auth_repo.UserRepo
	categoryRepo  *catalog_repo.CategoryRepo
	unitRepo      *catalog_repo.UnitRepo
	warehouseRepo *catalog_repo.WarehouseRepo
}

// seedAdmin creates the initial admin account. Credentials come from
// ADMIN_EMAIL / ADMIN_PASSWORD so no default password ships in code.
func (s *seeder) seedAdmin(ctx context.Context) error {
	email := mustEnv("ADMIN_EMAIL")
	password := mustEnv("ADMIN_PASSWORD")

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin exists: %w", err)
	}
	if exists {
		s.log.Infow("admin already present, skipping", "email", email)
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := auth.NewUser(getEnv("ADMIN_NAME", "Administrator"), email, hash, auth.RoleAdmin)
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.log.Infow("admin created", "email", email)
	return nil
}

func (s *seeder) seedUnits(ctx context.Context) error {
	piece := unit.NewUnit("PCS", "Piece", "pcs", unit.TypePiece)
	kilogram := unit.NewUnit("KG", "Kilogram", "kg", unit.TypeWeight)
	meter := unit.NewUnit("M", "Meter", "m", unit.TypeLength)
	liter := unit.NewUnit("L", "Liter", "l", unit.TypeVolume)
	box := unit.NewUnit("BOX", "Box", "box", unit.TypePack)

	for _, u := range []*unit.Unit{piece, kilogram, meter, liter, box} {
		created, err := s.createUnit(ctx, u)
		if err != nil {
			return err
		}
		if !created {
			// Re-read so derived units can reference the existing row.
			existing, err := s.unitRepo.GetByCode(ctx, u.Code)
			if err != nil {
				return fmt.Errorf("load unit %s: %w", u.Code, err)
			}
			*u = *existing
		}
	}

	// Gram converts into kilogram.
	gram := unit.NewUnit("G", "Gram", "g", unit.TypeWeight)
	gram.IsBase = false
	baseID := kilogram.ID.String()
	gram.BaseUnitID = &baseID
	gram.ConversionFactor = decimal.NewFromFloat(0.001)

	if _, err := s.createUnit(ctx, gram); err != nil {
		return err
	}

	return nil
}

func (s *seeder) createUnit(ctx context.Context, u *unit.Unit) (bool, error) {
	exists, err := s.unitRepo.ExistsByCode(ctx, u.Code)
	if err != nil {
		return false, fmt.Errorf("check unit %s: %w", u.Code, err)
	}
	if exists {
		return false, nil
	}
	if err := s.unitRepo.Create(ctx, u); err != nil {
		return false, fmt.Errorf("create unit %s: %w", u.Code, err)
	}
	s.log.Infow("unit created", "code", u.Code)
	return true, nil
}

func (s *seeder) seedCategories(ctx context.Context) error {
	names := map[string]string{
		"GEN":  "General",
		"RAW":  "Raw Materials",
		"FIN":  "Finished Goods",
		"PACK": "Packaging",
	}

	for code, name := range names {
		exists, err := s.categoryRepo.ExistsByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("check category %s: %w", code, err)
		}
		if exists {
			continue
		}
		if err := s.categoryRepo.Create(ctx, category.NewCategory(code, name)); err != nil {
			return fmt.Errorf("create category %s: %w", code, err)
		}
		s.log.Infow("category created", "code", code)
	}

	return nil
}

func (s *seeder) seedWarehouse(ctx context.Context) error {
	const code = "MAIN"

	exists, err := s.warehouseRepo.ExistsByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("check warehouse %s: %w", code, err)
	}
	if exists {
		return nil
	}

	wh := warehouse.NewWarehouse(code, "Main Warehouse")
	if err := s.warehouseRepo.Create(ctx, wh); err != nil {
		return fmt.Errorf("create warehouse %s: %w", code, err)
	}

	s.log.Infow("warehouse created", "code", code)
	return nil
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
