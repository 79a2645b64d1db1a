package models

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendanceCheckedIn  AttendanceStatus = "checked_in"
	AttendanceOnBreak    AttendanceStatus = "on_break"
	AttendanceCheckedOut AttendanceStatus = "checked_out"
)

// AttendanceRecord is written by the attendance service; this service only
// reads the most recent record for (staff, work date) when gating a start
// attempt. ManualCheckIn marks an administrative override check-in, which
// bypasses attendance gating entirely.
type AttendanceRecord struct {
	ID            uuid.UUID        `json:"id"`
	StaffID       uuid.UUID        `json:"staff_id"`
	Status        AttendanceStatus `json:"status"`
	WorkDate      time.Time        `json:"work_date"`
	ManualCheckIn bool             `json:"manual_check_in"`
	Notes         string           `json:"notes"`
	CreatedAt     time.Time        `json:"created_at"`
}
