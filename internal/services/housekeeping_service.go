package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anuruddha96/hotelcare-backend/internal/config"
	"github.com/anuruddha96/hotelcare-backend/internal/dtos"
	"github.com/anuruddha96/hotelcare-backend/internal/events"
	"github.com/anuruddha96/hotelcare-backend/internal/models"
	"github.com/anuruddha96/hotelcare-backend/internal/queue"
	"github.com/anuruddha96/hotelcare-backend/internal/repositories"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

type HousekeepingService struct {
	cfg        *config.Config
	assignRepo repositories.AssignmentRepository
	roomRepo   repositories.RoomRepository
	attendRepo repositories.AttendanceRepository
	staffRepo  repositories.StaffRepository
	openai     *OpenAIService
	notifier   ManagerNotifier
	sink       events.Sink
}

func NewHousekeepingService(
	cfg *config.Config,
	assignRepo repositories.AssignmentRepository,
	roomRepo repositories.RoomRepository,
	attendRepo repositories.AttendanceRepository,
	staffRepo repositories.StaffRepository,
	openai *OpenAIService,
	notifier ManagerNotifier,
	sink events.Sink,
) *HousekeepingService {
	return &HousekeepingService{
		cfg:        cfg,
		assignRepo: assignRepo,
		roomRepo:   roomRepo,
		attendRepo: attendRepo,
		staffRepo:  staffRepo,
		openai:     openai,
		notifier:   notifier,
		sink:       sink,
	}
}

// workDateToday computes today's work date in the hotel's timezone,
// normalized to a UTC-midnight value matching the DATE column.
func (s *HousekeepingService) workDateToday() time.Time {
	now := time.Now().In(s.cfg.HotelLocation())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ListMyQueue returns the staff member's assignments for today, ordered by
// the named prioritizer mode.
func (s *HousekeepingService) ListMyQueue(
	ctx context.Context,
	staffID string,
	mode queue.ViewMode,
) (*dtos.QueueResponse, error) {
	sUUID, err := uuid.Parse(staffID)
	if err != nil {
		return nil, fmt.Errorf("invalid staff ID format: %w", err)
	}

	assignments, err := s.assignRepo.ListForStaffDate(ctx, sUUID, s.workDateToday())
	if err != nil {
		return nil, err
	}

	roomIDs := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		roomIDs = append(roomIDs, a.RoomID)
	}
	rooms, err := s.roomRepo.GetByIDs(ctx, roomIDs)
	if err != nil {
		return nil, err
	}

	items := make([]queue.Item, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, queue.Item{Assignment: a, Room: rooms[a.RoomID]})
	}
	sorted := queue.Prioritize(items, mode)

	results := make([]dtos.AssignmentDTO, 0, len(sorted))
	for _, it := range sorted {
		results = append(results, buildAssignmentDTO(it.Assignment, it.Room))
	}
	return &dtos.QueueResponse{Results: results, Total: len(results)}, nil
}

// AppendPhotos adds proof-of-work references to an assignment owned by the
// staff member. Photos may arrive while the assignment is in progress from
// a flow concurrent with the completion attempt.
func (s *HousekeepingService) AppendPhotos(
	ctx context.Context,
	staffID string,
	assignmentID uuid.UUID,
	refs []string,
) (*dtos.AssignmentDTO, error) {
	a, err := s.fetchOwnedAssignment(ctx, staffID, assignmentID)
	if err != nil || a == nil {
		return nil, err
	}

	updated, err := s.assignRepo.AppendCompletionPhotos(ctx, a.ID, refs, a.RowVersion)
	if err != nil {
		return nil, s.wrapConflict(ctx, a.ID, err)
	}

	s.publish("assignment", "photos_added", updated.ID, updated.AssignedStaffID)
	dto := s.buildDTO(ctx, updated)
	return &dto, nil
}

// fetchOwnedAssignment loads a fresh assignment row and verifies ownership.
// A nil, nil return means not found (controller renders 404).
func (s *HousekeepingService) fetchOwnedAssignment(
	ctx context.Context,
	staffID string,
	assignmentID uuid.UUID,
) (*models.Assignment, error) {
	a, err := s.assignRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	sUUID, err := uuid.Parse(staffID)
	if err != nil {
		return nil, fmt.Errorf("invalid staff ID format: %w", err)
	}
	if a.AssignedStaffID != sUUID {
		return nil, utils.ErrNotAssignedStaff
	}
	return a, nil
}

func buildAssignmentDTO(a *models.Assignment, room *models.Room) dtos.AssignmentDTO {
	dto := dtos.AssignmentDTO{
		AssignmentID:       a.ID,
		RoomID:             a.RoomID,
		Type:               string(a.Type),
		Status:             string(a.Status),
		Priority:           a.Priority,
		AssignmentDate:     a.AssignmentDate.Format("2006-01-02"),
		ReadyToClean:       a.ReadyToClean,
		StartedAt:          a.StartedAt,
		CompletedAt:        a.CompletedAt,
		CompletionPhotos:   a.CompletionPhotos,
		IsDND:              a.IsDND,
		DNDMarkedAt:        a.DNDMarkedAt,
		SupervisorApproved: a.SupervisorApproved,
		Notes:              a.Notes,
		RowVersion:         a.RowVersion,
	}
	if room != nil {
		dto.RoomNumber = room.RoomNumber
		dto.FloorNumber = room.FloorNumber
	}
	return dto
}

// buildDTO resolves the room for a single assignment; room lookup failures
// degrade the DTO rather than failing the action that already committed.
func (s *HousekeepingService) buildDTO(ctx context.Context, a *models.Assignment) dtos.AssignmentDTO {
	room, _ := s.roomRepo.GetByID(ctx, a.RoomID)
	return buildAssignmentDTO(a, room)
}

func (s *HousekeepingService) publish(entity, action string, id, staffID uuid.UUID) {
	if s.sink == nil {
		return
	}
	s.sink.Broadcast(events.NewMessage(entity, action, id, staffID))
}
