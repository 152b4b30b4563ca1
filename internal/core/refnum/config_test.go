package refnum

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigForKind(t *testing.T) {
	si := ConfigForKind(KindStockIn)
	assert.Equal(t, "SI", si.Prefix)
	assert.Equal(t, 4, si.PadWidth)

	so := ConfigForKind(KindStockOut)
	assert.Equal(t, "SO", so.Prefix)
}

func TestConfig_Format(t *testing.T) {
	day := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	cfg := ConfigForKind(KindStockIn)

	assert.Equal(t, "SI-20260115-0003", cfg.Format(day, 3))
	assert.Equal(t, "SI-20260115-9999", cfg.Format(day, 9999))

	// Sequence wider than the pad keeps all digits.
	assert.Equal(t, "SI-20260115-10001", cfg.Format(day, 10001))
}

func TestConfig_Format_ZeroPadDefaults(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	cfg := Config{Prefix: "SO"}

	assert.Equal(t, "SO-20260115-0001", cfg.Format(day, 1))
}

func TestConfig_Format_UsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:00 on Jan 16 in UTC+5 is still Jan 15 in UTC.
	day := time.Date(2026, 1, 16, 2, 0, 0, 0, loc)

	cfg := ConfigForKind(KindStockIn)
	assert.Equal(t, "SI-20260115-0001", cfg.Format(day, 1))
	assert.Equal(t, "SI_20260115", cfg.SequenceKey(day))
}

func TestConfig_SequenceKey_PerKindPerDay(t *testing.T) {
	day1 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	si := ConfigForKind(KindStockIn)
	so := ConfigForKind(KindStockOut)

	assert.NotEqual(t, si.SequenceKey(day1), so.SequenceKey(day1))
	assert.NotEqual(t, si.SequenceKey(day1), si.SequenceKey(day2))
}

func TestMockAllocator_DefaultSequence(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	cfg := ConfigForKind(KindStockIn)
	mock := &MockAllocator{}

	ref1, err := mock.NextReference(context.Background(), cfg, day)
	require.NoError(t, err)
	ref2, err := mock.NextReference(context.Background(), cfg, day)
	require.NoError(t, err)

	assert.Equal(t, "SI-20260115-0001", ref1)
	assert.Equal(t, "SI-20260115-0002", ref2)
}
