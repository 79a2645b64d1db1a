package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anuruddha96/hotelcare-backend/internal/dtos"
	"github.com/anuruddha96/hotelcare-backend/internal/models"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

/*
   The assignment state machine. Legal transitions:

       assigned    → in_progress   (AttendanceGate + ConcurrencyGuard)
       in_progress → completed     (PhotoRequirementPolicy)
       any         → cancelled     (administrative override)

   plus the DND paths in dnd_service.go. Guard failures are expected
   control-flow outcomes reported as sentinel errors before any write;
   illegal transitions leave every field unchanged.
*/

// StartAssignment moves assigned → in_progress for the calling staff
// member. Attendance and the single-active-task rule are re-evaluated
// against fresh reads at the moment of the attempt, then enforced again by
// the conditional write inside the repository transaction.
func (s *HousekeepingService) StartAssignment(
	ctx context.Context,
	staffID string,
	assignmentID uuid.UUID,
) (*dtos.AssignmentDTO, error) {
	a, err := s.fetchOwnedAssignment(ctx, staffID, assignmentID)
	if err != nil || a == nil {
		return nil, err
	}
	if a.Status != models.AssignmentStatusAssigned {
		return nil, utils.ErrWrongStatus
	}

	sUUID := a.AssignedStaffID

	staff, err := s.staffRepo.GetByID(ctx, sUUID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		// Security anomaly: a valid token for a staff row that is gone.
		return nil, errors.New("authenticated staff member not found")
	}
	if !staff.Active {
		return nil, utils.ErrStaffNotActive
	}

	// AttendanceGate: freshly fetched latest record for today.
	rec, err := s.attendRepo.GetLatestForStaffDate(ctx, sUUID, s.workDateToday())
	if err != nil {
		return nil, err
	}
	if gateErr := CheckAttendance(rec); gateErr != nil {
		return nil, gateErr
	}

	// ConcurrencyGuard fast path: name the conflicting room early so the
	// user gets an actionable message without waiting for the write.
	if staff.Role.SingleTaskEnforced() {
		conflicting, err := s.assignRepo.FindActiveForStaff(ctx, sUUID, a.AssignmentDate, a.ID)
		if err != nil {
			return nil, err
		}
		if conflicting != nil {
			room, _ := s.roomRepo.GetByID(ctx, conflicting.RoomID)
			if guardErr := CheckSingleActive(staff.Role, conflicting, room); guardErr != nil {
				return nil, guardErr
			}
		}
	}

	updated, err := s.assignRepo.StartAssignmentAtomic(
		ctx, a.ID, sUUID, a.RowVersion, staff.Role.SingleTaskEnforced(),
	)
	if err != nil {
		return nil, s.wrapConflict(ctx, a.ID, err)
	}

	utils.Logger.WithFields(logrus.Fields{
		"assignment_id": updated.ID,
		"staff_id":      sUUID,
		"room_id":       updated.RoomID,
	}).Info("assignment started")

	s.publish("assignment", "started", updated.ID, updated.AssignedStaffID)
	dto := s.buildDTO(ctx, updated)
	return &dto, nil
}

// CompleteAssignment moves in_progress → completed on the normal path.
// The photo requirement is checked against a re-fetched row, never the
// caller's rendered state. The room's cleanliness status is deliberately
// not touched here; the supervisor-approval workflow owns that update.
func (s *HousekeepingService) CompleteAssignment(
	ctx context.Context,
	staffID string,
	assignmentID uuid.UUID,
) (*dtos.AssignmentDTO, error) {
	a, err := s.fetchOwnedAssignment(ctx, staffID, assignmentID)
	if err != nil || a == nil {
		return nil, err
	}
	if a.Status != models.AssignmentStatusInProgress {
		return nil, utils.ErrWrongStatus
	}

	if policyErr := CheckPhotoRequirement(a); policyErr != nil {
		return nil, policyErr
	}

	updated, err := s.assignRepo.CompleteAssignmentAtomic(ctx, a.ID, a.RowVersion)
	if err != nil {
		return nil, s.wrapConflict(ctx, a.ID, err)
	}

	utils.Logger.WithFields(logrus.Fields{
		"assignment_id": updated.ID,
		"room_id":       updated.RoomID,
	}).Info("assignment completed, awaiting supervisor approval")

	s.publish("assignment", "awaiting_approval", updated.ID, updated.AssignedStaffID)
	dto := s.buildDTO(ctx, updated)
	return &dto, nil
}

// CancelAssignment is the unconditional administrative override: any
// non-cancelled state → cancelled, no further side effects.
func (s *HousekeepingService) CancelAssignment(
	ctx context.Context,
	assignmentID uuid.UUID,
) (*dtos.AssignmentDTO, error) {
	a, err := s.assignRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	if a.Status == models.AssignmentStatusCancelled {
		return nil, utils.ErrWrongStatus
	}

	updated, err := s.assignRepo.CancelAssignmentAtomic(ctx, a.ID, a.RowVersion)
	if err != nil {
		return nil, s.wrapConflict(ctx, a.ID, err)
	}

	utils.Logger.WithFields(logrus.Fields{
		"assignment_id": updated.ID,
	}).Info("assignment cancelled")

	s.publish("assignment", "cancelled", updated.ID, updated.AssignedStaffID)
	dto := s.buildDTO(ctx, updated)
	return &dto, nil
}

// wrapConflict converts a bare row-version conflict into a
// RowVersionConflictError carrying the latest row, so the controller can
// return it to the client.
func (s *HousekeepingService) wrapConflict(ctx context.Context, assignmentID uuid.UUID, err error) error {
	if !errors.Is(err, utils.ErrRowVersionConflict) {
		return err
	}
	latest, fetchErr := s.assignRepo.GetByID(ctx, assignmentID)
	if fetchErr != nil || latest == nil {
		return err
	}
	return utils.NewRowVersionConflictError(latest)
}
