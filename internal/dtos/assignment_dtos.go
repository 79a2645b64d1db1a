package dtos

import (
	"time"

	"github.com/google/uuid"
)

/*
AssignmentActionRequest is the body for start / complete / cancel /
dnd-retrieve actions.
*/
type AssignmentActionRequest struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required"`
}

/*
PhotoCaptureRequest appends proof-of-work references to an assignment.
PhotoRefs are opaque storage keys; the photo pipeline owns the bytes.
*/
type PhotoCaptureRequest struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required"`
	PhotoRefs    []string  `json:"photo_refs" validate:"required,min=1,max=20,dive,required"`
}

/*
DNDMarkRequest records a Do-Not-Disturb completion. Photographic evidence
of the DND marker is mandatory.
*/
type DNDMarkRequest struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required"`
	PhotoRefs    []string  `json:"photo_refs" validate:"required,min=1,max=20,dive,required"`
}

/*
AssignmentDTO is the wire shape for a single assignment in queue listings
and action responses.
*/
type AssignmentDTO struct {
	AssignmentID   uuid.UUID `json:"assignment_id"`
	RoomID         uuid.UUID `json:"room_id"`
	RoomNumber     string    `json:"room_number,omitempty"`
	FloorNumber    *int      `json:"floor_number,omitempty"`
	Type           string    `json:"assignment_type"`
	Status         string    `json:"status"`
	Priority       int       `json:"priority"`
	AssignmentDate string    `json:"assignment_date"`
	ReadyToClean   bool      `json:"ready_to_clean"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CompletionPhotos []string `json:"completion_photos"`

	IsDND              bool       `json:"is_dnd"`
	DNDMarkedAt        *time.Time `json:"dnd_marked_at,omitempty"`
	SupervisorApproved bool       `json:"supervisor_approved"`

	Notes      string `json:"notes,omitempty"`
	RowVersion int64  `json:"row_version"`
}

type QueueResponse struct {
	Results []AssignmentDTO `json:"results"`
	Total   int             `json:"total"`
}
