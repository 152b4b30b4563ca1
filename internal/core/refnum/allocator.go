// Package refnum provides domain contracts for movement reference numbering.
// Implementations live in infrastructure layer.
package refnum

import (
	"context"
	"time"
)

// Allocator mints batch reference numbers.
// This is the domain contract - the implementation lives in infrastructure layer
// and must be atomic: two concurrent calls for the same kind and day never
// return the same reference.
type Allocator interface {
	// NextReference returns the next reference number for the given day.
	// Pattern: PREFIX-YYYYMMDD-XXXX (e.g., SI-20260115-0003).
	// The sequence resets daily and is independent per prefix.
	NextReference(ctx context.Context, cfg Config, day time.Time) (string, error)
}
