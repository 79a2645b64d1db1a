package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anuruddha96/hotelcare-backend/internal/constants"
	"github.com/anuruddha96/hotelcare-backend/internal/models"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

func TestMarkDND(t *testing.T) {
	env := newTestEnv(t)
	room := env.addRoom(t, "101", 1)
	a := env.addAssignment(t, room, models.AssignmentTypeDailyCleaning, models.AssignmentStatusAssigned)

	dto, err := env.svc.MarkDND(context.Background(), env.staffID(), a.ID, []string{"photos/dnd-101.jpg"}, nil)
	require.NoError(t, err)
	require.Equal(t, string(models.AssignmentStatusCompleted), dto.Status)
	require.True(t, dto.IsDND)
	require.NotNil(t, dto.DNDMarkedAt)
	require.Contains(t, dto.CompletionPhotos, "photos/dnd-101.jpg")

	storedRoom, _ := env.rooms.GetByID(context.Background(), room.ID)
	require.True(t, storedRoom.IsDND, "room flag must be mirrored in the same write")
	require.Contains(t, env.sink.actions(), "dnd_marked")
}

func TestMarkDNDRequiresEvidence(t *testing.T) {
	env := newTestEnv(t)
	room := env.addRoom(t, "101", 1)
	a := env.addAssignment(t, room, models.AssignmentTypeDailyCleaning, models.AssignmentStatusAssigned)

	_, err := env.svc.MarkDND(context.Background(), env.staffID(), a.ID, nil, nil)
	require.ErrorIs(t, err, utils.ErrNoPhotosProvided)

	stored, _ := env.assigns.GetByID(context.Background(), a.ID)
	require.False(t, stored.IsDND)
	require.Equal(t, models.AssignmentStatusAssigned, stored.Status)
}

func TestMarkDNDDeniedOnTerminalAssignment(t *testing.T) {
	env := newTestEnv(t)
	room := env.addRoom(t, "101", 1)

	for _, status := range []models.AssignmentStatus{
		models.AssignmentStatusCompleted,
		models.AssignmentStatusCancelled,
	} {
		a := env.addAssignment(t, room, models.AssignmentTypeDailyCleaning, status)
		_, err := env.svc.MarkDND(context.Background(), env.staffID(), a.ID, []string{"photos/x.jpg"}, nil)
		require.ErrorIs(t, err, utils.ErrWrongStatus, "mark from %s", status)
	}
}

func TestRetrieveDNDRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	room := env.addRoom(t, "101", 1)
	a := env.addAssignment(t, room, models.AssignmentTypeDailyCleaning, models.AssignmentStatusAssigned)

	_, err := env.svc.MarkDND(context.Background(), env.staffID(), a.ID, []string{"photos/dnd-101.jpg"}, nil)
	require.NoError(t, err)

	dto, err := env.svc.RetrieveDND(context.Background(), env.staffID(), a.ID)
	require.NoError(t, err)
	require.Equal(t, string(models.AssignmentStatusAssigned), dto.Status)
	require.False(t, dto.IsDND)
	require.Nil(t, dto.CompletedAt)

	storedRoom, _ := env.rooms.GetByID(context.Background(), room.ID)
	require.False(t, storedRoom.IsDND)
	require.Equal(t, models.RoomStatusNeedsClean, storedRoom.Status)

	// No approval had been granted, so no audit line and no manager alert.
	require.Empty(t, dto.Notes)
	require.Equal(t, 0, env.notifier.calls())
	require.Contains(t, env.sink.actions(), "dnd_retrieved")
}

func TestRetrieveApprovedDNDNotifiesManagers(t *testing.T) {
	env := newTestEnv(t)
	room := env.addRoom(t, "101", 1)
	a := env.addAssignment(t, room, models.AssignmentTypeDailyCleaning, models.AssignmentStatusAssigned)

	_, err := env.svc.MarkDND(context.Background(), env.staffID(), a.ID, []string{"photos/dnd-101.jpg"}, nil)
	require.NoError(t, err)

	// Supervisor signs off out-of-band.
	stored, _ := env.assigns.GetByID(context.Background(), a.ID)
	now := time.Now()
	approver := env.housekeeper.ID
	stored.SupervisorApproved = true
	stored.SupervisorApprovedBy = &approver
	stored.SupervisorApprovedAt = &now
	require.NoError(t, env.assigns.Create(context.Background(), stored))

	dto, err := env.svc.RetrieveDND(context.Background(), env.staffID(), a.ID)
	require.NoError(t, err)
	require.Equal(t, string(models.AssignmentStatusAssigned), dto.Status)
	require.False(t, dto.SupervisorApproved)
	require.Contains(t, dto.Notes, constants.DNDRetrievalAuditNote)

	require.Equal(t, 1, env.notifier.calls())
	require.Contains(t, env.notifier.titles[0], "Approved DND room reopened")
	require.Contains(t, env.notifier.bodies[0], "101")
}

func TestRetrieveDeniedWhenRoomNotDND(t *testing.T) {
	env := newTestEnv(t)
	room := env.addRoom(t, "101", 1)
	a := env.addAssignment(t, room, models.AssignmentTypeDailyCleaning, models.AssignmentStatusAssigned)

	_, err := env.svc.RetrieveDND(context.Background(), env.staffID(), a.ID)
	require.ErrorIs(t, err, utils.ErrNotDND)
}

func TestRetrieveAuditNoteAppendsToExistingNotes(t *testing.T) {
	env := newTestEnv(t)
	room := env.addRoom(t, "101", 1)
	a := env.addAssignment(t, room, models.AssignmentTypeDailyCleaning, models.AssignmentStatusAssigned)
	a.Notes = "guest requested extra towels"
	require.NoError(t, env.assigns.Create(context.Background(), a))

	_, err := env.svc.MarkDND(context.Background(), env.staffID(), a.ID, []string{"photos/dnd-101.jpg"}, nil)
	require.NoError(t, err)

	stored, _ := env.assigns.GetByID(context.Background(), a.ID)
	stored.SupervisorApproved = true
	require.NoError(t, env.assigns.Create(context.Background(), stored))

	dto, err := env.svc.RetrieveDND(context.Background(), env.staffID(), a.ID)
	require.NoError(t, err)
	require.Contains(t, dto.Notes, "guest requested extra towels")
	require.Contains(t, dto.Notes, constants.DNDRetrievalAuditNote)
}
