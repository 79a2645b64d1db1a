package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anuruddha96/hotelcare-backend/internal/events"
	"github.com/anuruddha96/hotelcare-backend/internal/models"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

/*
   In-memory repository fakes. The atomic methods mirror the conditional
   writes of the pgx implementations: same version checks, same sentinel
   errors, same two-record effects for the DND paths.
*/

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[uuid.UUID]*models.Assignment
	rooms       *fakeRoomRepo
}

func newFakeAssignmentRepo(rooms *fakeRoomRepo) *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		assignments: make(map[uuid.UUID]*models.Assignment),
		rooms:       rooms,
	}
}

func (r *fakeAssignmentRepo) put(a *models.Assignment) {
	cp := *a
	r.assignments[a.ID] = &cp
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, a *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(a)
	return nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) ListForStaffDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Assignment
	for _, a := range r.assignments {
		if a.AssignedStaffID == staffID && a.AssignmentDate.Equal(date) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) FindActiveForStaff(ctx context.Context, staffID uuid.UUID, date time.Time, excludeID uuid.UUID) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findActiveLocked(staffID, date, excludeID), nil
}

func (r *fakeAssignmentRepo) findActiveLocked(staffID uuid.UUID, date time.Time, excludeID uuid.UUID) *models.Assignment {
	for _, a := range r.assignments {
		if a.ID != excludeID &&
			a.AssignedStaffID == staffID &&
			a.AssignmentDate.Equal(date) &&
			a.Status == models.AssignmentStatusInProgress {
			cp := *a
			return &cp
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) StartAssignmentAtomic(ctx context.Context, assignmentID uuid.UUID, staffID uuid.UUID, expectedVersion int64, enforceSingle bool) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[assignmentID]
	if !ok {
		return nil, utils.ErrNoRowsUpdated
	}
	if a.RowVersion != expectedVersion {
		return nil, utils.ErrRowVersionConflict
	}
	if a.Status != models.AssignmentStatusAssigned {
		return nil, utils.ErrWrongStatus
	}
	if enforceSingle {
		if other := r.findActiveLocked(staffID, a.AssignmentDate, a.ID); other != nil {
			roomNumber := other.RoomID.String()
			if room := r.rooms.get(other.RoomID); room != nil {
				roomNumber = room.RoomNumber
			}
			return nil, utils.NewActiveTaskConflictError(roomNumber)
		}
	}
	now := time.Now()
	a.Status = models.AssignmentStatusInProgress
	a.StartedAt = &now
	a.RowVersion++
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) CompleteAssignmentAtomic(ctx context.Context, assignmentID uuid.UUID, expectedVersion int64) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[assignmentID]
	if !ok {
		return nil, utils.ErrNoRowsUpdated
	}
	if a.RowVersion != expectedVersion {
		return nil, utils.ErrRowVersionConflict
	}
	if a.Status != models.AssignmentStatusInProgress {
		return nil, utils.ErrWrongStatus
	}
	now := time.Now()
	a.Status = models.AssignmentStatusCompleted
	a.CompletedAt = &now
	a.RowVersion++
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) CancelAssignmentAtomic(ctx context.Context, assignmentID uuid.UUID, expectedVersion int64) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[assignmentID]
	if !ok {
		return nil, utils.ErrNoRowsUpdated
	}
	if a.RowVersion != expectedVersion {
		return nil, utils.ErrRowVersionConflict
	}
	a.Status = models.AssignmentStatusCancelled
	a.RowVersion++
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) AppendCompletionPhotos(ctx context.Context, assignmentID uuid.UUID, refs []string, expectedVersion int64) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[assignmentID]
	if !ok {
		return nil, utils.ErrNoRowsUpdated
	}
	if a.RowVersion != expectedVersion {
		return nil, utils.ErrRowVersionConflict
	}
	a.CompletionPhotos = append(a.CompletionPhotos, refs...)
	a.RowVersion++
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) MarkDNDAtomic(ctx context.Context, assignmentID uuid.UUID, staffID uuid.UUID, photoRefs []string, expectedVersion int64) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[assignmentID]
	if !ok {
		return nil, utils.ErrNoRowsUpdated
	}
	if a.RowVersion != expectedVersion {
		return nil, utils.ErrRowVersionConflict
	}
	now := time.Now()
	a.Status = models.AssignmentStatusCompleted
	a.CompletedAt = &now
	a.IsDND = true
	a.DNDMarkedAt = &now
	a.DNDMarkedBy = &staffID
	a.CompletionPhotos = append(a.CompletionPhotos, photoRefs...)
	a.RowVersion++

	room := r.rooms.get(a.RoomID)
	if room == nil {
		return nil, utils.ErrNoRowsUpdated
	}
	room.IsDND = true
	r.rooms.set(room)

	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) RetrieveDNDAtomic(ctx context.Context, assignmentID uuid.UUID, expectedVersion int64, auditNote string) (*models.Assignment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[assignmentID]
	if !ok {
		return nil, false, utils.ErrNoRowsUpdated
	}
	if a.RowVersion != expectedVersion {
		return nil, false, utils.ErrRowVersionConflict
	}

	room := r.rooms.get(a.RoomID)
	if room == nil || !room.IsDND {
		return nil, false, utils.ErrNotDND
	}

	wasApproved := a.SupervisorApproved

	a.Status = models.AssignmentStatusAssigned
	a.IsDND = false
	a.DNDMarkedAt = nil
	a.DNDMarkedBy = nil
	a.CompletedAt = nil
	a.SupervisorApproved = false
	a.SupervisorApprovedBy = nil
	a.SupervisorApprovedAt = nil
	if wasApproved {
		if a.Notes != "" {
			a.Notes += "\n"
		}
		a.Notes += auditNote
	}
	a.RowVersion++

	room.IsDND = false
	room.Status = models.RoomStatusNeedsClean
	r.rooms.set(room)

	cp := *a
	return &cp, wasApproved, nil
}

func (r *fakeAssignmentRepo) CancelStaleBefore(ctx context.Context, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.assignments {
		if a.AssignmentDate.Before(date) &&
			(a.Status == models.AssignmentStatusAssigned || a.Status == models.AssignmentStatusInProgress) {
			a.Status = models.AssignmentStatusCancelled
			a.RowVersion++
			n++
		}
	}
	return n, nil
}

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*models.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[uuid.UUID]*models.Room)}
}

func (r *fakeRoomRepo) get(id uuid.UUID) *models.Room {
	room, ok := r.rooms[id]
	if !ok {
		return nil
	}
	cp := *room
	return &cp
}

func (r *fakeRoomRepo) set(room *models.Room) {
	cp := *room
	r.rooms[room.ID] = &cp
}

func (r *fakeRoomRepo) Create(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set(room)
	return nil
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id), nil
}

func (r *fakeRoomRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]*models.Room, len(ids))
	for _, id := range ids {
		if room := r.get(id); room != nil {
			out[id] = room
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records []*models.AttendanceRecord
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

func (r *fakeAttendanceRepo) GetLatestForStaffDate(ctx context.Context, staffID uuid.UUID, workDate time.Time) (*models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.AttendanceRecord
	for _, rec := range r.records {
		if rec.StaffID != staffID || !rec.WorkDate.Equal(workDate) {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

type fakeStaffRepo struct {
	mu    sync.Mutex
	staff map[uuid.UUID]*models.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: make(map[uuid.UUID]*models.Staff)}
}

func (r *fakeStaffRepo) Create(ctx context.Context, s *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.staff[s.ID] = &cp
	return nil
}

func (r *fakeStaffRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStaffRepo) ListManagersByHotel(ctx context.Context, hotelID uuid.UUID) ([]*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Staff
	for _, s := range r.staff {
		if s.HotelID == hotelID && s.Role == models.RoleManager && s.Active {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeNotifier records manager-notify calls.
type fakeNotifier struct {
	mu     sync.Mutex
	titles []string
	bodies []string
}

func (n *fakeNotifier) NotifyManagers(ctx context.Context, hotelID uuid.UUID, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	n.bodies = append(n.bodies, body)
}

func (n *fakeNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.titles)
}

// fakeSink records broadcast events.
type fakeSink struct {
	mu   sync.Mutex
	msgs []events.Message
}

func (s *fakeSink) Broadcast(msg events.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *fakeSink) actions() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.msgs))
	for _, m := range s.msgs {
		out = append(out, m.Action)
	}
	return strings.Join(out, ",")
}
