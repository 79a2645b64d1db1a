package utils

import (
	"errors"
	"fmt"
)

/*
   Sentinel errors for housekeeping domain logic. Policy rejections are
   expected control-flow outcomes, produced before any write is attempted;
   the controller does: if errors.Is(err, ErrXYZ) { ... } and renders a
   precise, actionable message.
*/
var (
	ErrWrongStatus      = errors.New("wrong_status")
	ErrNotCheckedIn     = errors.New("not_checked_in")
	ErrOnBreak          = errors.New("on_break")
	ErrAlreadyWorking   = errors.New("already_working_on")
	ErrPhotosRequired   = errors.New("photos_required")
	ErrNotDND           = errors.New("not_dnd")
	ErrNoPhotosProvided = errors.New("no_photos_provided")
	ErrEvidenceRejected = errors.New("dnd_evidence_rejected")
	ErrNotAssignedStaff = errors.New("not_assigned_staff")
	ErrStaffNotActive   = errors.New("staff_not_active")

	// For concurrency conflicts and conditional writes
	ErrRowVersionConflict = errors.New("row_version_conflict")
	ErrNoRowsUpdated      = errors.New("no_rows_updated")
)

/*
   ActiveTaskConflictError wraps ErrAlreadyWorking and names the room the
   staff member is already working on, so the UI can tell the user what to
   finish first.
*/
type ActiveTaskConflictError struct {
	RoomNumber string
}

func (e *ActiveTaskConflictError) Error() string {
	return fmt.Sprintf("already_working_on room %s", e.RoomNumber)
}

func (e *ActiveTaskConflictError) Unwrap() error {
	return ErrAlreadyWorking
}

func NewActiveTaskConflictError(roomNumber string) error {
	return &ActiveTaskConflictError{RoomNumber: roomNumber}
}

/*
   RowVersionConflictError is returned when there's an optimistic-lock
   mismatch. It includes the "latest" row (as any) so the controller can
   return it to the client if desired.
*/
type RowVersionConflictError struct {
	Current any
}

func (e *RowVersionConflictError) Error() string {
	return "row_version_conflict"
}

func (e *RowVersionConflictError) Unwrap() error {
	return ErrRowVersionConflict
}

func NewRowVersionConflictError(current any) error {
	return &RowVersionConflictError{Current: current}
}
