package services

import (
	"github.com/anuruddha96/hotelcare-backend/internal/models"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

/*
   The three transition guards. Each is a side-effect-free function over
   freshly fetched rows; callers must never feed them previously rendered
   view state, because attendance, photos and DND flags change out-of-band.
*/

// CheckAttendance gates assigned → in_progress on today's attendance.
// A manual (admin) check-in bypasses gating entirely. No record, or a
// latest record of checked_out, denies with not_checked_in; on_break denies
// with on_break.
func CheckAttendance(rec *models.AttendanceRecord) error {
	if rec != nil && rec.ManualCheckIn {
		return nil
	}
	if rec == nil || rec.Status == models.AttendanceCheckedOut {
		return utils.ErrNotCheckedIn
	}
	if rec.Status == models.AttendanceOnBreak {
		return utils.ErrOnBreak
	}
	return nil
}

// CheckSingleActive enforces one active assignment per worker per day for
// role-restricted staff. conflicting is some other in_progress assignment
// on the same date (or nil); conflictingRoom names the room so the denial
// is actionable. Supervisory roles are exempt.
//
// This check is an advisory fast path with an inherent read-then-write
// race; the authoritative enforcement is the conditional write in
// AssignmentRepository.StartAssignmentAtomic.
func CheckSingleActive(role models.StaffRole, conflicting *models.Assignment, conflictingRoom *models.Room) error {
	if !role.SingleTaskEnforced() {
		return nil
	}
	if conflicting == nil {
		return nil
	}
	roomNumber := conflicting.RoomID.String()
	if conflictingRoom != nil {
		roomNumber = conflictingRoom.RoomNumber
	}
	return utils.NewActiveTaskConflictError(roomNumber)
}

// CheckPhotoRequirement enforces proof-of-work before completion. Only
// daily_cleaning requires photos; other types pass (other policies may
// still apply). The assignment must be re-fetched before the check, since
// photos may have been captured by a concurrent flow.
func CheckPhotoRequirement(a *models.Assignment) error {
	if a.Type != models.AssignmentTypeDailyCleaning {
		return nil
	}
	if len(a.CompletionPhotos) == 0 {
		return utils.ErrPhotosRequired
	}
	return nil
}
