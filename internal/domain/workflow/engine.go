// Package workflow provides the approval engine for stock movement batches.
// It owns the only path from pending to a terminal status, and applies the
// ledger effects of an approval inside the same transaction that flips the
// status, so a batch and its balances can never diverge.
package workflow

import (
	"context"
	"time"

	"stockyard/internal/core/apperror"
	appctx "stockyard/internal/core/context"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain/ledger"
	"stockyard/pkg/logger"
)

// Batch is the contract a movement batch must satisfy to be driven
// through the approval workflow.
type Batch interface {
	GetID() id.ID
	GetReferenceNumber() string
	GetStatus() entity.MovementStatus

	// Approve and Reject enforce the pending-only transition themselves.
	Approve(approverID string, now time.Time) error
	Reject(approverID, reason string, now time.Time) error

	// LedgerEffects returns the quantity deltas an approval applies.
	LedgerEffects() []ledger.Effect
}

// Auditor records workflow decisions. Implemented by the audit trail
// in the storage layer.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}

// Engine drives batches through pending -> approved | rejected.
type Engine struct {
	balances  *ledger.Service
	txManager tx.Manager
	audit     Auditor
}

// NewEngine creates a new workflow engine. audit may be nil.
func NewEngine(balances *ledger.Service, txManager tx.Manager, audit Auditor) *Engine {
	return &Engine{
		balances:  balances,
		txManager: txManager,
		audit:     audit,
	}
}

// Approve transitions the batch to approved and applies its ledger effects.
// The whole operation runs in one transaction: the ledger rows are locked,
// stock-out availability is re-validated through the balance arithmetic,
// and any failure rolls back both the status change and the ledger.
func (e *Engine) Approve(ctx context.Context, entityType string, batch Batch, save func(ctx context.Context) error) error {
	approverID := appctx.GetUserID(ctx)
	if approverID == "" {
		return apperror.NewUnauthorized("approver identity is missing")
	}

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := batch.Approve(approverID, time.Now().UTC()); err != nil {
			return err
		}

		for _, effect := range batch.LedgerEffects() {
			if err := e.balances.Apply(ctx, effect); err != nil {
				return err
			}
		}

		return save(ctx)
	})
	if err != nil {
		return err
	}

	e.logDecision(ctx, entityType, batch, "approve", map[string]any{
		"status":      string(entity.StatusApproved),
		"approved_by": approverID,
	})

	logger.Info(ctx, "movement batch approved",
		"entity", entityType,
		"id", batch.GetID(),
		"reference_number", batch.GetReferenceNumber(),
	)
	return nil
}

// Reject transitions the batch to rejected. No ledger effect.
func (e *Engine) Reject(ctx context.Context, entityType string, batch Batch, reason string, save func(ctx context.Context) error) error {
	approverID := appctx.GetUserID(ctx)
	if approverID == "" {
		return apperror.NewUnauthorized("approver identity is missing")
	}

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := batch.Reject(approverID, reason, time.Now().UTC()); err != nil {
			return err
		}
		return save(ctx)
	})
	if err != nil {
		return err
	}

	e.logDecision(ctx, entityType, batch, "reject", map[string]any{
		"status":           string(entity.StatusRejected),
		"rejected_by":      approverID,
		"rejection_reason": reason,
	})

	logger.Info(ctx, "movement batch rejected",
		"entity", entityType,
		"id", batch.GetID(),
		"reference_number", batch.GetReferenceNumber(),
	)
	return nil
}

func (e *Engine) logDecision(ctx context.Context, entityType string, batch Batch, action string, changes map[string]any) {
	if e.audit == nil {
		return
	}
	changes["reference_number"] = batch.GetReferenceNumber()
	if err := e.audit.LogChange(ctx, entityType, batch.GetID(), action, changes); err != nil {
		logger.Warn(ctx, "audit log failed", "error", err, "action", action)
	}
}
