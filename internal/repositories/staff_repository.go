package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/anuruddha96/hotelcare-backend/internal/models"
)

type StaffRepository interface {
	Create(ctx context.Context, s *models.Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Staff, error)

	// ListManagersByHotel returns active managers for the hotel, used by
	// the manager-notify fan-out when an approved DND room is reopened.
	ListManagersByHotel(ctx context.Context, hotelID uuid.UUID) ([]*models.Staff, error)
}

type staffRepo struct {
	db DB
}

func NewStaffRepository(db DB) StaffRepository {
	return &staffRepo{db: db}
}

func baseSelectStaff() string {
	return `
        SELECT id, hotel_id, name, role, phone, email, active, created_at
        FROM staff
    `
}

func scanStaff(row pgx.Row) (*models.Staff, error) {
	var s models.Staff
	err := row.Scan(
		&s.ID,
		&s.HotelID,
		&s.Name,
		&s.Role,
		&s.Phone,
		&s.Email,
		&s.Active,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *staffRepo) Create(ctx context.Context, s *models.Staff) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO staff (id, hotel_id, name, role, phone, email, active, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
    `, s.ID, s.HotelID, s.Name, s.Role, s.Phone, s.Email, s.Active)
	return err
}

func (r *staffRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	row := r.db.QueryRow(ctx, baseSelectStaff()+" WHERE id=$1", id)
	s, err := scanStaff(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *staffRepo) ListManagersByHotel(ctx context.Context, hotelID uuid.UUID) ([]*models.Staff, error) {
	rows, err := r.db.Query(ctx,
		baseSelectStaff()+" WHERE hotel_id=$1 AND role=$2 AND active", hotelID, models.RoleManager)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
