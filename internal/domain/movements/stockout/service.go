// Package stockout provides the stock-out batch service.
package stockout

import (
	"context"
	"fmt"
	"time"

	"stockyard/internal/core/apperror"
	appctx "stockyard/internal/core/context"
	"stockyard/internal/core/id"
	"stockyard/internal/core/refnum"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/domain/movements"
	"stockyard/internal/domain/workflow"
	"stockyard/pkg/logger"
)

// Service provides business operations for stock-out batches.
type Service struct {
	repo      Repository
	refs      refnum.Allocator
	validator *movements.RefValidator
	balances  *ledger.Service
	engine    *workflow.Engine
	txManager tx.Manager
	audit     workflow.Auditor
}

// NewService creates a new stock-out service. audit may be nil.
func NewService(
	repo Repository,
	refs refnum.Allocator,
	validator *movements.RefValidator,
	balances *ledger.Service,
	engine *workflow.Engine,
	txManager tx.Manager,
	audit workflow.Auditor,
) *Service {
	return &Service{
		repo:      repo,
		refs:      refs,
		validator: validator,
		balances:  balances,
		engine:    engine,
		txManager: txManager,
		audit:     audit,
	}
}

func (s *Service) validateRefs(ctx context.Context, batch *Batch) error {
	if _, err := s.validator.Warehouse(ctx, batch.WarehouseID); err != nil {
		return err
	}
	for _, line := range batch.Lines {
		if _, err := s.validator.Product(ctx, line.ProductID); err != nil {
			return err
		}
	}
	return nil
}

// checkAvailability rejects batches that already overdraw the balance.
// This is an early check for user feedback; approval re-validates every
// line under a row lock, which is what actually prevents double spend.
func (s *Service) checkAvailability(ctx context.Context, batch *Batch) error {
	for _, line := range batch.Lines {
		if err := s.balances.CheckAvailability(ctx, line.ProductID, batch.WarehouseID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Create persists a new pending batch. Availability is verified per line
// before the insert, and the reference number is allocated inside the same
// transaction as the insert.
func (s *Service) Create(ctx context.Context, batch *Batch) error {
	userID := appctx.GetUserID(ctx)
	batch.CreatedBy = userID
	batch.UpdatedBy = userID

	if err := s.validateRefs(ctx, batch); err != nil {
		return err
	}
	if err := batch.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkAvailability(ctx, batch); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Reference numbers are minted from the creation date, not the
		// business date, so backdated batches do not reopen old sequences.
		reference, err := s.refs.NextReference(ctx, refnum.ConfigForKind(refnum.KindStockOut), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("allocate reference: %w", err)
		}
		batch.ReferenceNumber = reference

		if err := s.repo.Create(ctx, batch); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		if err := s.repo.SaveLines(ctx, batch.ID, batch.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock-out batch created",
		"id", batch.ID,
		"reference_number", batch.ReferenceNumber,
		"lines", len(batch.Lines),
	)
	return nil
}

// GetByID retrieves a batch with its lines.
func (s *Service) GetByID(ctx context.Context, batchID id.ID) (*Batch, error) {
	batch, err := s.repo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, batch)
}

// GetByReference retrieves a batch by reference number with its lines.
func (s *Service) GetByReference(ctx context.Context, reference string) (*Batch, error) {
	batch, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, batch)
}

func (s *Service) withLines(ctx context.Context, batch *Batch) (*Batch, error) {
	lines, err := s.repo.GetLines(ctx, batch.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	batch.Lines = lines
	return batch, nil
}

// Update replaces the header fields and the entire line set of a pending
// batch. The reference number is preserved; delete+recreate of lines and
// the header update run in one transaction.
func (s *Service) Update(ctx context.Context, batch *Batch) error {
	if err := batch.CanModify(); err != nil {
		return err
	}
	if err := s.validateRefs(ctx, batch); err != nil {
		return err
	}
	if err := batch.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkAvailability(ctx, batch); err != nil {
		return err
	}

	batch.UpdatedBy = appctx.GetUserID(ctx)
	batch.SetUpdatedAt(time.Now().UTC())

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, batch); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		if err := s.repo.SaveLines(ctx, batch.ID, batch.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Approve transitions the batch to approved and deducts its quantities
// from the ledger. Runs in one transaction with the header row locked;
// insufficient stock on any line rolls back the whole approval.
func (s *Service) Approve(ctx context.Context, batchID id.ID) (*Batch, error) {
	var batch *Batch
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.repo.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if locked, err = s.withLines(ctx, locked); err != nil {
			return err
		}
		batch = locked

		return s.engine.Approve(ctx, "stock_out", batch, func(ctx context.Context) error {
			return s.repo.Update(ctx, batch)
		})
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// Reject transitions the batch to rejected with a reason. No ledger effect.
func (s *Service) Reject(ctx context.Context, batchID id.ID, reason string) (*Batch, error) {
	var batch *Batch
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.repo.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if locked, err = s.withLines(ctx, locked); err != nil {
			return err
		}
		batch = locked

		return s.engine.Reject(ctx, "stock_out", batch, reason, func(ctx context.Context) error {
			return s.repo.Update(ctx, batch)
		})
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// Delete soft-deletes a pending or rejected batch. Approved batches are
// immutable history and cannot be removed.
func (s *Service) Delete(ctx context.Context, batchID id.ID) error {
	batch, err := s.repo.GetByID(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.IsTrashed() {
		return apperror.NewInvalidState("record is already deleted").
			WithDetail("reference_number", batch.ReferenceNumber)
	}

	if err := batch.SoftDelete(time.Now().UTC()); err != nil {
		return err
	}
	batch.UpdatedBy = appctx.GetUserID(ctx)

	return s.repo.Update(ctx, batch)
}

// Restore undoes a soft delete.
func (s *Service) Restore(ctx context.Context, batchID id.ID) (*Batch, error) {
	batch, err := s.repo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if !batch.IsTrashed() {
		return nil, apperror.NewInvalidState("only deleted records can be restored").
			WithDetail("reference_number", batch.ReferenceNumber)
	}

	batch.Restore()
	batch.UpdatedBy = appctx.GetUserID(ctx)

	if err := s.repo.Update(ctx, batch); err != nil {
		return nil, err
	}
	return s.withLines(ctx, batch)
}

// ForceDelete permanently removes a soft-deleted batch with its lines.
func (s *Service) ForceDelete(ctx context.Context, batchID id.ID) error {
	batch, err := s.repo.GetByID(ctx, batchID)
	if err != nil {
		return err
	}
	if !batch.IsTrashed() {
		return apperror.NewInvalidState("only deleted records can be permanently removed").
			WithDetail("reference_number", batch.ReferenceNumber)
	}

	if err := s.repo.ForceDelete(ctx, batchID); err != nil {
		return err
	}

	if s.audit != nil {
		_ = s.audit.LogChange(ctx, "stock_out", batchID, "force_delete", map[string]any{
			"reference_number": batch.ReferenceNumber,
		})
	}

	logger.Info(ctx, "stock-out batch permanently deleted",
		"id", batchID,
		"reference_number", batch.ReferenceNumber,
	)
	return nil
}

// List retrieves live batches with filtering.
func (s *Service) List(ctx context.Context, filter movements.ListFilter) (domain.ListResult[*Batch], error) {
	return s.repo.List(ctx, filter)
}

// ListTrashed retrieves soft-deleted batches.
func (s *Service) ListTrashed(ctx context.Context, filter movements.ListFilter) (domain.ListResult[*Batch], error) {
	filter.OnlyTrashed = true
	return s.repo.List(ctx, filter)
}

// Statistics summarizes batches by status.
func (s *Service) Statistics(ctx context.Context) (movements.Statistics, error) {
	return s.repo.GetStatistics(ctx)
}
