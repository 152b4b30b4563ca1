package postgres

import (
	"context"
	"fmt"
	"time"

	"stockyard/internal/core/refnum"
)

// Compile-time check that SequenceAllocator implements refnum.Allocator.
var _ refnum.Allocator = (*SequenceAllocator)(nil)

// SequenceAllocator issues reference numbers from per-day counters in
// sys_sequences. The upsert increments and reads the counter in one
// statement, so two concurrent creates can never observe the same value.
type SequenceAllocator struct {
	txManager *TxManager
}

// NewSequenceAllocator creates a new sequence allocator.
func NewSequenceAllocator(txManager *TxManager) *SequenceAllocator {
	return &SequenceAllocator{txManager: txManager}
}

// NextReference allocates the next reference number for the kind and day.
// Must be called inside the transaction that inserts the batch: the row
// lock taken by the upsert serializes allocations, and a rollback returns
// the number before it ever becomes visible.
func (a *SequenceAllocator) NextReference(ctx context.Context, cfg refnum.Config, day time.Time) (string, error) {
	sql := `
		INSERT INTO sys_sequences (sequence_key, current_val, updated_at)
		VALUES ($1, 1, now())
		ON CONFLICT (sequence_key)
		DO UPDATE SET current_val = sys_sequences.current_val + 1, updated_at = now()
		RETURNING current_val
	`

	var seq int64
	querier := a.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, cfg.SequenceKey(day)).Scan(&seq); err != nil {
		return "", fmt.Errorf("next sequence value for %s: %w", cfg.SequenceKey(day), err)
	}

	return cfg.Format(day, seq), nil
}
