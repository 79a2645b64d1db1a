package models

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentType string

const (
	AssignmentTypeDailyCleaning    AssignmentType = "daily_cleaning"
	AssignmentTypeCheckoutCleaning AssignmentType = "checkout_cleaning"
	AssignmentTypeMaintenance      AssignmentType = "maintenance"
	AssignmentTypeDeepCleaning     AssignmentType = "deep_cleaning"
)

type AssignmentStatus string

const (
	AssignmentStatusAssigned   AssignmentStatus = "assigned"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
	AssignmentStatusCancelled  AssignmentStatus = "cancelled"
)

// Assignment priorities set by the scheduler. Higher is more urgent.
const (
	PriorityNormal = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

// Assignment is one unit of housekeeping work tied to a room and a work
// date. It is created by the scheduling pipeline with status "assigned" and
// mutated exclusively through the guarded transitions in the services layer.
// DND is recorded as a completion variant (IsDND=true on a completed row),
// not a separate status value.
type Assignment struct {
	Versioned

	ID              uuid.UUID        `json:"id"`
	RoomID          uuid.UUID        `json:"room_id"`
	Type            AssignmentType   `json:"assignment_type"`
	Status          AssignmentStatus `json:"status"`
	Priority        int              `json:"priority"`
	AssignedStaffID uuid.UUID        `json:"assigned_staff_id"`
	AssignmentDate  time.Time        `json:"assignment_date"`

	// Relevant only to checkout_cleaning; true once the guest has checked out.
	ReadyToClean bool `json:"ready_to_clean"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Ordered proof-of-work references; empty until captured.
	CompletionPhotos []string `json:"completion_photos"`

	IsDND       bool       `json:"is_dnd"`
	DNDMarkedAt *time.Time `json:"dnd_marked_at,omitempty"`
	DNDMarkedBy *uuid.UUID `json:"dnd_marked_by,omitempty"`

	// Set by the external supervisor-approval workflow; read and cleared
	// (never produced) by this service's DND retrieval path.
	SupervisorApproved   bool       `json:"supervisor_approved"`
	SupervisorApprovedBy *uuid.UUID `json:"supervisor_approved_by,omitempty"`
	SupervisorApprovedAt *time.Time `json:"supervisor_approved_at,omitempty"`

	// Appended to by workflow transitions, never silently overwritten.
	Notes string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the assignment is in a terminal state. A
// DND-completed assignment may still be reopened via the retrieval path.
func (a *Assignment) Terminal() bool {
	return a.Status == AssignmentStatusCompleted || a.Status == AssignmentStatusCancelled
}
