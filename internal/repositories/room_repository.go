package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/anuruddha96/hotelcare-backend/internal/models"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Room, error)
}

type roomRepo struct {
	db DB
}

func NewRoomRepository(db DB) RoomRepository {
	return &roomRepo{db: db}
}

func baseSelectRoom() string {
	return `
        SELECT id, hotel_id, room_number, floor_number, status, is_dnd,
               row_version, created_at, updated_at
        FROM rooms
    `
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	var r models.Room
	err := row.Scan(
		&r.ID,
		&r.HotelID,
		&r.RoomNumber,
		&r.FloorNumber,
		&r.Status,
		&r.IsDND,
		&r.RowVersion,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO rooms (
            id, hotel_id, room_number, floor_number, status, is_dnd,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,FALSE,NOW(),NOW(),1)
    `, room.ID, room.HotelID, room.RoomNumber, room.FloorNumber, room.Status)
	return err
}

func (r *roomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	row := r.db.QueryRow(ctx, baseSelectRoom()+" WHERE id=$1", id)
	room, err := scanRoom(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return room, err
}

func (r *roomRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Room, error) {
	out := make(map[uuid.UUID]*models.Room, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, baseSelectRoom()+" WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out[room.ID] = room
	}
	return out, rows.Err()
}
