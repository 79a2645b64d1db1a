package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anuruddha96/hotelcare-backend/internal/constants"
	"github.com/anuruddha96/hotelcare-backend/internal/dtos"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

/*
   Do-Not-Disturb sub-workflow, nested inside the completed state.

   Mark records the assignment as a DND completion and mirrors the flag
   onto the room; Retrieve reverses it. Both touch two tables and run as
   single repository transactions — a partial write is never committed.
*/

// MarkDND completes an assignment as Do-Not-Disturb. Photographic evidence
// of the DND marker is mandatory; when the verification flag is on, the
// first photo is checked by the vision service before any write.
func (s *HousekeepingService) MarkDND(
	ctx context.Context,
	staffID string,
	assignmentID uuid.UUID,
	photoRefs []string,
	evidence []byte,
) (*dtos.AssignmentDTO, error) {
	if len(photoRefs) == 0 {
		return nil, utils.ErrNoPhotosProvided
	}

	a, err := s.fetchOwnedAssignment(ctx, staffID, assignmentID)
	if err != nil || a == nil {
		return nil, err
	}
	if a.Terminal() {
		return nil, utils.ErrWrongStatus
	}

	room, err := s.roomRepo.GetByID(ctx, a.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("room not found for assignment %s", a.ID)
	}

	if s.cfg.LDFlag_OpenAIDNDPhotoVerification && s.openai != nil && len(evidence) > 0 {
		result, err := s.openai.VerifyDNDPhoto(ctx, evidence, room.RoomNumber)
		if err != nil {
			return nil, err
		}
		utils.Logger.WithFields(logrus.Fields{
			"assignment_id":        a.ID,
			"dnd_marker_visible":   result.DNDMarkerVisible,
			"door_number_matches":  result.DoorNumberMatches,
			"door_number_detected": result.DoorNumberDetected,
		}).Debug("openai DND verification result")
		if !result.DNDMarkerVisible || !result.DoorNumberMatches {
			return nil, utils.ErrEvidenceRejected
		}
	}

	updated, err := s.assignRepo.MarkDNDAtomic(ctx, a.ID, a.AssignedStaffID, photoRefs, a.RowVersion)
	if err != nil {
		return nil, s.wrapConflict(ctx, a.ID, err)
	}

	utils.Logger.WithFields(logrus.Fields{
		"assignment_id": updated.ID,
		"room_id":       updated.RoomID,
	}).Info("room marked Do-Not-Disturb")

	s.publish("assignment", "dnd_marked", updated.ID, updated.AssignedStaffID)
	dto := s.buildDTO(ctx, updated)
	return &dto, nil
}

// RetrieveDND reverses a DND mark: the room reopens for cleaning and the
// assignment returns to assigned with DND, completion and supervisor
// approval cleared. The room's DND flag is re-verified against the stored
// row (inside the transaction), not the caller's view. Reopening a room a
// supervisor had already signed off is operationally significant: an audit
// line is appended to the notes and the hotel's managers are notified.
func (s *HousekeepingService) RetrieveDND(
	ctx context.Context,
	staffID string,
	assignmentID uuid.UUID,
) (*dtos.AssignmentDTO, error) {
	a, err := s.fetchOwnedAssignment(ctx, staffID, assignmentID)
	if err != nil || a == nil {
		return nil, err
	}

	// Fresh pre-check for a fast, friendly rejection; the transaction
	// re-verifies against the locked room row.
	room, err := s.roomRepo.GetByID(ctx, a.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil || !room.IsDND {
		return nil, utils.ErrNotDND
	}

	updated, wasApproved, err := s.assignRepo.RetrieveDNDAtomic(
		ctx, a.ID, a.RowVersion, constants.DNDRetrievalAuditNote,
	)
	if err != nil {
		return nil, s.wrapConflict(ctx, a.ID, err)
	}

	utils.Logger.WithFields(logrus.Fields{
		"assignment_id": updated.ID,
		"room_id":       updated.RoomID,
		"was_approved":  wasApproved,
	}).Info("DND room retrieved")

	if wasApproved && s.notifier != nil {
		title := "[Alert] Approved DND room reopened"
		body := fmt.Sprintf(
			"Room %s was retrieved from Do-Not-Disturb after supervisor approval. Sign-off has been cleared and the room needs cleaning again.",
			room.RoomNumber,
		)
		s.notifier.NotifyManagers(ctx, room.HotelID, title, body)
	}

	s.publish("assignment", "dnd_retrieved", updated.ID, updated.AssignedStaffID)
	dto := s.buildDTO(ctx, updated)
	return &dto, nil
}
