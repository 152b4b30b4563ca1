package ledger

import (
	"context"
	"fmt"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/tx"
	"stockyard/internal/core/types"
	"stockyard/pkg/logger"
)

// Service provides business operations on the stock balance ledger.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new ledger service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Apply records one ledger effect. Must run inside the approval transaction:
// the row lock taken here is what serializes concurrent approvals against
// the same (product, warehouse) pair.
func (s *Service) Apply(ctx context.Context, effect Effect) error {
	balance, err := s.repo.GetBalanceForUpdate(ctx, effect.ProductID, effect.WarehouseID)
	if err != nil {
		return fmt.Errorf("get balance for %s: %w", effect.ProductID, err)
	}

	now := time.Now().UTC()
	switch effect.Kind {
	case EffectReceipt:
		err = balance.ApplyReceipt(effect.Quantity, now)
	case EffectExpense:
		err = balance.ApplyExpense(effect.Quantity, now)
	default:
		err = apperror.NewValidation("unknown ledger effect kind").
			WithDetail("kind", string(effect.Kind))
	}
	if err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, balance); err != nil {
		return fmt.Errorf("save balance: %w", err)
	}

	return nil
}

// CheckAvailability verifies available stock covers the requested quantity.
// Used at batch creation time; approval re-checks under a row lock.
func (s *Service) CheckAvailability(ctx context.Context, productID, warehouseID id.ID, qty types.Quantity) error {
	balance, err := s.repo.GetBalance(ctx, productID, warehouseID)
	if err != nil {
		return fmt.Errorf("get balance for %s: %w", productID, err)
	}

	if balance.AvailableQuantity < qty {
		return apperror.NewInsufficientStock(
			productID.String(),
			qty.String(),
			balance.AvailableQuantity.String(),
		).WithDetail("warehouse_id", warehouseID.String())
	}

	return nil
}

// Reserve holds stock for a pending outbound movement.
func (s *Service) Reserve(ctx context.Context, productID, warehouseID id.ID, qty types.Quantity) error {
	return s.mutate(ctx, productID, warehouseID, "reserve", func(b *StockBalance, now time.Time) error {
		return b.Reserve(qty, now)
	})
}

// Release returns reserved stock to the available pool.
func (s *Service) Release(ctx context.Context, productID, warehouseID id.ID, qty types.Quantity) error {
	return s.mutate(ctx, productID, warehouseID, "release", func(b *StockBalance, now time.Time) error {
		return b.Release(qty, now)
	})
}

func (s *Service) mutate(ctx context.Context, productID, warehouseID id.ID, op string, fn func(b *StockBalance, now time.Time) error) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		balance, err := s.repo.GetBalanceForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return fmt.Errorf("get balance for %s: %w", productID, err)
		}

		if err := fn(&balance, time.Now().UTC()); err != nil {
			return err
		}

		return s.repo.Upsert(ctx, balance)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock balance updated",
		"op", op,
		"product_id", productID,
		"warehouse_id", warehouseID,
	)
	return nil
}

// GetBalance returns the current balance for a pair.
func (s *Service) GetBalance(ctx context.Context, productID, warehouseID id.ID) (StockBalance, error) {
	return s.repo.GetBalance(ctx, productID, warehouseID)
}

// List returns balances for listings.
func (s *Service) List(ctx context.Context, filter BalanceFilter) ([]BalanceRow, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// GetLowStock returns low-stock alert rows.
func (s *Service) GetLowStock(ctx context.Context, limit int) ([]LowStockRow, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetLowStock(ctx, limit)
}
