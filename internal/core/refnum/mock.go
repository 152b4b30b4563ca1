// Package refnum provides domain contracts for movement reference numbering.
package refnum

import (
	"context"
	"sync/atomic"
	"time"
)

// MockAllocator is a test implementation of Allocator.
// Use in unit tests to avoid database dependencies.
type MockAllocator struct {
	NextReferenceFunc func(ctx context.Context, cfg Config, day time.Time) (string, error)

	seq atomic.Int64
}

// NextReference implements Allocator.
func (m *MockAllocator) NextReference(ctx context.Context, cfg Config, day time.Time) (string, error) {
	if m.NextReferenceFunc != nil {
		return m.NextReferenceFunc(ctx, cfg, day)
	}
	// Default: predictable in-memory sequence
	return cfg.Format(day, m.seq.Add(1)), nil
}

// Ensure compile-time interface compliance.
var _ Allocator = (*MockAllocator)(nil)
