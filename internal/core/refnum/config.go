// Package refnum provides domain contracts for movement reference numbering.
package refnum

import (
	"fmt"
	"time"
)

// Kind identifies the movement direction a reference belongs to.
type Kind string

const (
	// KindStockIn prefixes inbound batches (SI-...)
	KindStockIn Kind = "SI"
	// KindStockOut prefixes outbound batches (SO-...)
	KindStockOut Kind = "SO"
)

// Config holds reference numbering configuration.
type Config struct {
	// Prefix added to all references (e.g., "SI", "SO")
	Prefix string

	// PadWidth is the minimum sequence width (default 4)
	PadWidth int
}

// ConfigForKind returns the standard configuration for a movement kind.
func ConfigForKind(k Kind) Config {
	return Config{
		Prefix:   string(k),
		PadWidth: 4,
	}
}

// SequenceKey returns the database sequence key for the given day,
// e.g. "SI_20260115". One counter per prefix per day.
func (c Config) SequenceKey(day time.Time) string {
	return fmt.Sprintf("%s_%s", c.Prefix, day.UTC().Format("20060102"))
}

// Format renders a reference number from a sequence value,
// e.g. Format(2026-01-15, 3) -> "SI-20260115-0003".
func (c Config) Format(day time.Time, seq int64) string {
	pad := c.PadWidth
	if pad <= 0 {
		pad = 4
	}
	return fmt.Sprintf("%s-%s-%0*d", c.Prefix, day.UTC().Format("20060102"), pad, seq)
}
