package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/anuruddha96/hotelcare-backend/internal/models"
)

// AttendanceRepository reads records produced by the attendance service.
// This service never updates them; Create exists for seeding only.
type AttendanceRepository interface {
	Create(ctx context.Context, rec *models.AttendanceRecord) error

	// GetLatestForStaffDate returns the most recent record for
	// (staff, work date), by created_at descending, or nil when the staff
	// member has no record for the date. Callers must fetch this freshly
	// at the moment of a transition attempt; attendance can change
	// between queue render and action.
	GetLatestForStaffDate(ctx context.Context, staffID uuid.UUID, workDate time.Time) (*models.AttendanceRecord, error)
}

type attendanceRepo struct {
	db DB
}

func NewAttendanceRepository(db DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO attendance_records (
            id, staff_id, status, work_date, manual_check_in, notes, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,NOW())
    `, rec.ID, rec.StaffID, rec.Status, rec.WorkDate, rec.ManualCheckIn, rec.Notes)
	return err
}

func (r *attendanceRepo) GetLatestForStaffDate(
	ctx context.Context,
	staffID uuid.UUID,
	workDate time.Time,
) (*models.AttendanceRecord, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, staff_id, status, work_date, manual_check_in, notes, created_at
        FROM attendance_records
        WHERE staff_id=$1 AND work_date=$2
        ORDER BY created_at DESC
        LIMIT 1
    `, staffID, workDate)

	var rec models.AttendanceRecord
	err := row.Scan(
		&rec.ID,
		&rec.StaffID,
		&rec.Status,
		&rec.WorkDate,
		&rec.ManualCheckIn,
		&rec.Notes,
		&rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
