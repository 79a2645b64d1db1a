package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/anuruddha96/hotelcare-backend/internal/config"
	"github.com/anuruddha96/hotelcare-backend/internal/models"
	"github.com/anuruddha96/hotelcare-backend/internal/repositories"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

// Helper to check for unique violation error (PostgreSQL specific code)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	seedHotelID       = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	seedHousekeeperID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	seedSupervisorID  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	seedManagerID     = uuid.MustParse("44444444-4444-4444-4444-444444444444")
)

/*
SeedDemoData populates a demo hotel: three staff members, a spread of rooms
across floors (including a floorless exterior zone and a named suite, which
exercise the queue tie-breaks), a check-in for the housekeeper, and a mixed
batch of today's assignments. Idempotent: if the demo housekeeper already
exists, seeding is skipped entirely.
*/
func SeedDemoData(
	ctx context.Context,
	cfg *config.Config,
	staffRepo repositories.StaffRepository,
	roomRepo repositories.RoomRepository,
	attendRepo repositories.AttendanceRepository,
	assignRepo repositories.AssignmentRepository,
) error {
	if existing, err := staffRepo.GetByID(ctx, seedHousekeeperID); err != nil {
		return fmt.Errorf("check existing seed staff: %w", err)
	} else if existing != nil {
		utils.Logger.Info("hotelcare-backend: seed data already present; skipping seeding")
		return nil
	}

	if err := seedStaff(ctx, staffRepo); err != nil {
		return fmt.Errorf("seed staff: %w", err)
	}

	roomIDs, err := seedRooms(ctx, roomRepo)
	if err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}

	now := time.Now().In(cfg.HotelLocation())
	workDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if err := seedAttendance(ctx, attendRepo, workDate); err != nil {
		return fmt.Errorf("seed attendance: %w", err)
	}

	if err := seedAssignments(ctx, assignRepo, roomIDs, workDate); err != nil {
		return fmt.Errorf("seed assignments: %w", err)
	}

	utils.Logger.Info("hotelcare-backend: seeding completed successfully.")
	return nil
}

func seedStaff(ctx context.Context, staffRepo repositories.StaffRepository) error {
	members := []*models.Staff{
		{
			ID:      seedHousekeeperID,
			HotelID: seedHotelID,
			Name:    "Demo Housekeeper",
			Role:    models.RoleHousekeeper,
			Phone:   "+15551110000",
			Email:   "housekeeper@demo-hotel.test",
			Active:  true,
		},
		{
			ID:      seedSupervisorID,
			HotelID: seedHotelID,
			Name:    "Demo Supervisor",
			Role:    models.RoleSupervisor,
			Phone:   "+15552220000",
			Email:   "supervisor@demo-hotel.test",
			Active:  true,
		},
		{
			ID:      seedManagerID,
			HotelID: seedHotelID,
			Name:    "Demo Manager",
			Role:    models.RoleManager,
			Phone:   "+15553330000",
			Email:   "manager@demo-hotel.test",
			Active:  true,
		},
	}
	for _, m := range members {
		if err := staffRepo.Create(ctx, m); err != nil {
			if isUniqueViolation(err) {
				utils.Logger.Infof("hotelcare-backend: staff %s already exists; skipping.", m.ID)
				continue
			}
			return fmt.Errorf("create staff %s: %w", m.ID, err)
		}
		utils.Logger.Infof("hotelcare-backend: created staff %s (%s).", m.Name, m.Role)
	}
	return nil
}

func seedRooms(ctx context.Context, roomRepo repositories.RoomRepository) (map[string]uuid.UUID, error) {
	floor := func(n int) *int { return &n }

	rooms := []*models.Room{
		{RoomNumber: "101", FloorNumber: floor(1), Status: models.RoomStatusNeedsClean},
		{RoomNumber: "102", FloorNumber: floor(1), Status: models.RoomStatusNeedsClean},
		{RoomNumber: "201", FloorNumber: floor(2), Status: models.RoomStatusNeedsClean},
		{RoomNumber: "205", FloorNumber: floor(2), Status: models.RoomStatusOccupied},
		{RoomNumber: "301", FloorNumber: floor(3), Status: models.RoomStatusNeedsClean},
		// Named suite: non-numeric room number sorts after numeric ones.
		{RoomNumber: "Penthouse", FloorNumber: floor(9), Status: models.RoomStatusNeedsClean},
		// Exterior zone without a floor; sorts after every numbered floor.
		{RoomNumber: "Pool Area", FloorNumber: nil, Status: models.RoomStatusNeedsClean},
	}

	ids := make(map[string]uuid.UUID, len(rooms))
	for _, room := range rooms {
		room.ID = uuid.New()
		room.HotelID = seedHotelID
		if err := roomRepo.Create(ctx, room); err != nil {
			if isUniqueViolation(err) {
				utils.Logger.Infof("hotelcare-backend: room %s already exists; skipping.", room.RoomNumber)
				continue
			}
			return nil, fmt.Errorf("create room %s: %w", room.RoomNumber, err)
		}
		ids[room.RoomNumber] = room.ID
	}
	utils.Logger.Infof("hotelcare-backend: created %d demo rooms.", len(ids))
	return ids, nil
}

func seedAttendance(ctx context.Context, attendRepo repositories.AttendanceRepository, workDate time.Time) error {
	rec := &models.AttendanceRecord{
		ID:       uuid.New(),
		StaffID:  seedHousekeeperID,
		Status:   models.AttendanceCheckedIn,
		WorkDate: workDate,
		Notes:    "seeded demo check-in",
	}
	if err := attendRepo.Create(ctx, rec); err != nil {
		return fmt.Errorf("create attendance record: %w", err)
	}
	utils.Logger.Info("hotelcare-backend: checked demo housekeeper in for today.")
	return nil
}

func seedAssignments(
	ctx context.Context,
	assignRepo repositories.AssignmentRepository,
	roomIDs map[string]uuid.UUID,
	workDate time.Time,
) error {
	type spec struct {
		roomNumber string
		aType      models.AssignmentType
		priority   int
		ready      bool
	}
	batch := []spec{
		{"101", models.AssignmentTypeDailyCleaning, models.PriorityNormal, true},
		{"102", models.AssignmentTypeCheckoutCleaning, models.PriorityNormal, true},
		{"201", models.AssignmentTypeCheckoutCleaning, models.PriorityNormal, false},
		{"205", models.AssignmentTypeDailyCleaning, models.PriorityHigh, true},
		{"301", models.AssignmentTypeMaintenance, models.PriorityMedium, true},
		{"Penthouse", models.AssignmentTypeDeepCleaning, models.PriorityNormal, true},
		{"Pool Area", models.AssignmentTypeDailyCleaning, models.PriorityNormal, true},
	}

	created := 0
	for _, b := range batch {
		roomID, ok := roomIDs[b.roomNumber]
		if !ok {
			continue
		}
		a := &models.Assignment{
			ID:              uuid.New(),
			RoomID:          roomID,
			Type:            b.aType,
			Status:          models.AssignmentStatusAssigned,
			Priority:        b.priority,
			AssignedStaffID: seedHousekeeperID,
			AssignmentDate:  workDate,
			ReadyToClean:    b.ready,
		}
		if err := assignRepo.Create(ctx, a); err != nil {
			return fmt.Errorf("create assignment for room %s: %w", b.roomNumber, err)
		}
		created++
	}
	utils.Logger.Infof("hotelcare-backend: created %d demo assignments for today.", created)
	return nil
}
