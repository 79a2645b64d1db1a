package models

import (
	"time"

	"github.com/google/uuid"
)

type RoomStatus string

const (
	RoomStatusClean        RoomStatus = "clean"
	RoomStatusNeedsClean   RoomStatus = "needs_cleaning"
	RoomStatusOccupied     RoomStatus = "occupied"
	RoomStatusOutOfService RoomStatus = "out_of_service"
)

// Room is owned by the property-management side; this service reads and
// writes only the narrow slice below (DND mirror and cleanliness status).
// FloorNumber is nullable: some areas (lobbies, exterior zones) have none.
type Room struct {
	Versioned

	ID          uuid.UUID  `json:"id"`
	HotelID     uuid.UUID  `json:"hotel_id"`
	RoomNumber  string     `json:"room_number"`
	FloorNumber *int       `json:"floor_number,omitempty"`
	Status      RoomStatus `json:"status"`
	IsDND       bool       `json:"is_dnd"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
