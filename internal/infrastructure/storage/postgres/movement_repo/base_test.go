package movement_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/movements/stockin"
	"stockyard/internal/infrastructure/storage/postgres"
)

func newTestRepo() *BaseMovementRepo[*stockin.Batch, stockin.Line] {
	return NewBaseMovementRepo[*stockin.Batch, stockin.Line](
		nil,
		stockInTable,
		stockInLineTable,
		postgres.ExtractDBColumns[stockin.Batch](),
		postgres.ExtractDBColumns[stockin.Line](),
		[]string{"reference_number", "supplier_name"},
		func() *stockin.Batch { return &stockin.Batch{} },
		nil,
	)
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to date desc", orderBy: "", want: "date DESC"},
		{name: "plain field ascends", orderBy: "date", want: "date ASC"},
		{name: "minus prefix descends", orderBy: "-date", want: "date DESC"},
		{name: "plus prefix ascends", orderBy: "+reference_number", want: "reference_number ASC"},
		{name: "status column", orderBy: "-status", want: "status DESC"},
		{name: "unknown column rejected", orderBy: "supplier_rating", wantErr: true},
		{name: "raw sql rejected", orderBy: "date DESC; DROP TABLE stock_in_batches", wantErr: true},
		{name: "bare minus rejected", orderBy: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Update filters on the version the row was read with and bumps it in SQL.
// The status transitions must therefore leave Version untouched, or the
// WHERE clause would never match the stored row.
func TestUpdate_VersionMatchesStoredRow(t *testing.T) {
	batch := stockin.NewBatch(id.New(), "Acme Supplies")
	require.Equal(t, 1, batch.Version)

	require.NoError(t, batch.Approve(id.New().String(), time.Now().UTC()))

	data := postgres.StructToMap(batch)
	assert.Equal(t, 1, data["version"])

	rejected := stockin.NewBatch(id.New(), "Acme Supplies")
	require.NoError(t, rejected.Reject(id.New().String(), "mispick", time.Now().UTC()))
	assert.Equal(t, 1, postgres.StructToMap(rejected)["version"])

	trashed := stockin.NewBatch(id.New(), "Acme Supplies")
	require.NoError(t, trashed.SoftDelete(time.Now().UTC()))
	trashed.Restore()
	assert.Equal(t, 1, postgres.StructToMap(trashed)["version"])
}
