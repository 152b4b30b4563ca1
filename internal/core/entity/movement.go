package entity

import (
	"context"
	"fmt"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
)

// MovementStatus is the lifecycle status of a stock movement batch.
// The state machine is closed: pending is the only initial and the only
// non-terminal state; approved and rejected are terminal.
type MovementStatus string

const (
	StatusPending  MovementStatus = "pending"
	StatusApproved MovementStatus = "approved"
	StatusRejected MovementStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s MovementStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s MovementStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo reports whether the transition s -> next is allowed.
func (s MovementStatus) CanTransitionTo(next MovementStatus) bool {
	return s == StatusPending && (next == StatusApproved || next == StatusRejected)
}

// Field length limits shared by all movement kinds.
const (
	MaxCounterpartyLen    = 255
	MaxNotesLen           = 1000
	MaxRejectionReasonLen = 500
)

// MovementBatch is the base type for stock movement batches (stock-in, stock-out).
// A batch is the unit of workflow: it owns its lines, and every line shares the
// batch's reference number, status, warehouse, counterparty and date.
type MovementBatch struct {
	BaseDocument

	// ReferenceNumber is the human-readable batch identifier, e.g. SI-20260115-0003
	ReferenceNumber string `db:"reference_number" json:"referenceNumber"`

	// WarehouseID is the warehouse all lines move through
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Date is the business date of the movement
	Date time.Time `db:"date" json:"date"`

	// Notes is an optional free-form comment
	Notes string `db:"notes" json:"notes,omitempty"`

	// Status is the workflow state (pending/approved/rejected)
	Status MovementStatus `db:"status" json:"status"`

	// Approval fields, set on approve or reject
	ApprovedBy      *string    `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	RejectionReason *string    `db:"rejection_reason" json:"rejectionReason,omitempty"`

	// DeletedAt marks the batch soft-deleted (nil = live)
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// NewMovementBatch creates a pending batch for the given warehouse.
func NewMovementBatch(warehouseID id.ID) MovementBatch {
	return MovementBatch{
		BaseDocument: NewBaseDocument(),
		WarehouseID:  warehouseID,
		Date:         time.Now().UTC(),
		Status:       StatusPending,
	}
}

// Validate implements Validatable interface.
func (m *MovementBatch) Validate(ctx context.Context) error {
	if id.IsNil(m.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if m.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	if len(m.Notes) > MaxNotesLen {
		return apperror.NewValidation(fmt.Sprintf("notes must not exceed %d characters", MaxNotesLen)).
			WithDetail("field", "notes")
	}

	if !m.Status.Valid() {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(m.Status))
	}

	return nil
}

// CanModify checks if the batch lines and header can still be changed.
// Only pending batches are editable.
func (m *MovementBatch) CanModify() error {
	if m.Status != StatusPending {
		return apperror.NewInvalidState("only pending records can be updated").
			WithDetail("reference_number", m.ReferenceNumber).
			WithDetail("status", string(m.Status))
	}
	return nil
}

// Approve transitions the batch to approved and stamps the approver.
func (m *MovementBatch) Approve(approverID string, now time.Time) error {
	if !m.Status.CanTransitionTo(StatusApproved) {
		return apperror.NewInvalidState("only pending records can be approved").
			WithDetail("reference_number", m.ReferenceNumber).
			WithDetail("status", string(m.Status))
	}

	m.Status = StatusApproved
	m.ApprovedBy = &approverID
	m.ApprovedAt = &now
	m.UpdatedBy = approverID
	m.SetUpdatedAt(now)
	return nil
}

// Reject transitions the batch to rejected with the given reason.
func (m *MovementBatch) Reject(approverID, reason string, now time.Time) error {
	if reason == "" {
		return apperror.NewValidation("rejection reason is required").
			WithDetail("field", "rejectionReason")
	}
	if len(reason) > MaxRejectionReasonLen {
		return apperror.NewValidation(fmt.Sprintf("rejection reason must not exceed %d characters", MaxRejectionReasonLen)).
			WithDetail("field", "rejectionReason")
	}
	if !m.Status.CanTransitionTo(StatusRejected) {
		return apperror.NewInvalidState("only pending records can be rejected").
			WithDetail("reference_number", m.ReferenceNumber).
			WithDetail("status", string(m.Status))
	}

	m.Status = StatusRejected
	m.ApprovedBy = &approverID
	m.ApprovedAt = &now
	m.RejectionReason = &reason
	m.UpdatedBy = approverID
	m.SetUpdatedAt(now)
	return nil
}

// CanDelete checks if the batch may be soft-deleted.
// Approved batches are immutable history and cannot be removed.
func (m *MovementBatch) CanDelete() error {
	if m.Status == StatusApproved {
		return apperror.NewInvalidState("approved records cannot be deleted").
			WithDetail("reference_number", m.ReferenceNumber)
	}
	return nil
}

// SoftDelete marks the batch deleted.
func (m *MovementBatch) SoftDelete(now time.Time) error {
	if err := m.CanDelete(); err != nil {
		return err
	}
	m.DeletedAt = &now
	m.SetUpdatedAt(now)
	return nil
}

// Restore clears the soft-delete mark.
func (m *MovementBatch) Restore() {
	m.DeletedAt = nil
	m.SetUpdatedAt(time.Now().UTC())
}

// IsTrashed reports whether the batch is soft-deleted.
func (m *MovementBatch) IsTrashed() bool {
	return m.DeletedAt != nil
}

func (m *MovementBatch) IsPending() bool  { return m.Status == StatusPending }
func (m *MovementBatch) IsApproved() bool { return m.Status == StatusApproved }
func (m *MovementBatch) IsRejected() bool { return m.Status == StatusRejected }

// GetID returns the batch ID.
func (m *MovementBatch) GetID() id.ID {
	return m.ID
}

// GetReferenceNumber returns the batch reference number.
func (m *MovementBatch) GetReferenceNumber() string {
	return m.ReferenceNumber
}

// GetStatus returns the workflow status.
func (m *MovementBatch) GetStatus() MovementStatus {
	return m.Status
}
