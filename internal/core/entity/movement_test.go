package entity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
)

func TestMovementStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusApproved.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, MovementStatus("draft").Valid())
	assert.False(t, MovementStatus("").Valid())
}

func TestMovementStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))

	// Terminal states allow nothing, not even a round trip to pending.
	for _, terminal := range []MovementStatus{StatusApproved, StatusRejected} {
		assert.True(t, terminal.IsTerminal())
		assert.False(t, terminal.CanTransitionTo(StatusPending))
		assert.False(t, terminal.CanTransitionTo(StatusApproved))
		assert.False(t, terminal.CanTransitionTo(StatusRejected))
	}

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
}

func TestNewMovementBatch(t *testing.T) {
	warehouseID := id.New()
	batch := NewMovementBatch(warehouseID)

	assert.Equal(t, StatusPending, batch.Status)
	assert.Equal(t, warehouseID, batch.WarehouseID)
	assert.False(t, batch.Date.IsZero())
	assert.False(t, id.IsNil(batch.ID))
	assert.Equal(t, 1, batch.Version)
}

func TestMovementBatch_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		assert.NoError(t, batch.Validate(ctx))
	})

	t.Run("missing warehouse", func(t *testing.T) {
		batch := NewMovementBatch(id.Nil())
		err := batch.Validate(ctx)
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("zero date", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		batch.Date = time.Time{}
		assert.True(t, apperror.IsValidation(batch.Validate(ctx)))
	})

	t.Run("notes too long", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		batch.Notes = strings.Repeat("x", MaxNotesLen+1)
		assert.True(t, apperror.IsValidation(batch.Validate(ctx)))
	})

	t.Run("unknown status", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		batch.Status = "draft"
		assert.True(t, apperror.IsValidation(batch.Validate(ctx)))
	})
}

func TestMovementBatch_Approve(t *testing.T) {
	now := time.Now().UTC()

	batch := NewMovementBatch(id.New())
	require.NoError(t, batch.Approve("user-1", now))

	assert.Equal(t, StatusApproved, batch.Status)
	require.NotNil(t, batch.ApprovedBy)
	assert.Equal(t, "user-1", *batch.ApprovedBy)
	require.NotNil(t, batch.ApprovedAt)
	assert.Equal(t, now, *batch.ApprovedAt)
	assert.Equal(t, now, batch.UpdatedAt)

	// Version stays at the value the row was read with; the repository
	// increments it inside the optimistic-lock UPDATE.
	assert.Equal(t, 1, batch.Version)

	// Second approval must fail: approved is terminal.
	err := batch.Approve("user-2", now)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, "user-1", *batch.ApprovedBy)
}

func TestMovementBatch_Reject(t *testing.T) {
	now := time.Now().UTC()

	t.Run("requires reason", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		err := batch.Reject("user-1", "", now)
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
		assert.Equal(t, StatusPending, batch.Status)
	})

	t.Run("reason too long", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		err := batch.Reject("user-1", strings.Repeat("x", MaxRejectionReasonLen+1), now)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("pending to rejected", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		require.NoError(t, batch.Reject("user-1", "wrong warehouse", now))

		assert.Equal(t, StatusRejected, batch.Status)
		require.NotNil(t, batch.RejectionReason)
		assert.Equal(t, "wrong warehouse", *batch.RejectionReason)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		require.NoError(t, batch.Reject("user-1", "dup", now))

		assert.True(t, apperror.IsInvalidState(batch.Reject("user-2", "again", now)))
		assert.True(t, apperror.IsInvalidState(batch.Approve("user-2", now)))
	})
}

func TestMovementBatch_CanModify(t *testing.T) {
	batch := NewMovementBatch(id.New())
	assert.NoError(t, batch.CanModify())

	require.NoError(t, batch.Approve("user-1", time.Now().UTC()))
	assert.True(t, apperror.IsInvalidState(batch.CanModify()))
}

func TestMovementBatch_SoftDelete(t *testing.T) {
	now := time.Now().UTC()

	t.Run("pending can be deleted", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		require.NoError(t, batch.SoftDelete(now))
		assert.True(t, batch.IsTrashed())
	})

	t.Run("rejected can be deleted", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		require.NoError(t, batch.Reject("user-1", "nope", now))
		require.NoError(t, batch.SoftDelete(now))
		assert.True(t, batch.IsTrashed())
	})

	t.Run("approved is immutable history", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		require.NoError(t, batch.Approve("user-1", now))

		err := batch.SoftDelete(now)
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidState(err))
		assert.False(t, batch.IsTrashed())
	})

	t.Run("restore clears the mark", func(t *testing.T) {
		batch := NewMovementBatch(id.New())
		require.NoError(t, batch.SoftDelete(now))
		batch.Restore()
		assert.False(t, batch.IsTrashed())
		assert.Nil(t, batch.DeletedAt)
	})
}

// No state transition bumps Version; the repository owns the handshake
// (WHERE version = read value, SET version = version + 1).
func TestMovementBatch_TransitionsKeepVersion(t *testing.T) {
	now := time.Now().UTC()

	approved := NewMovementBatch(id.New())
	require.NoError(t, approved.Approve("user-1", now))
	assert.Equal(t, 1, approved.Version)

	rejected := NewMovementBatch(id.New())
	require.NoError(t, rejected.Reject("user-1", "dup", now))
	assert.Equal(t, 1, rejected.Version)

	trashed := NewMovementBatch(id.New())
	require.NoError(t, trashed.SoftDelete(now))
	trashed.Restore()
	assert.Equal(t, 1, trashed.Version)
}
