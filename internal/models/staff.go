package models

import (
	"time"

	"github.com/google/uuid"
)

type StaffRole string

const (
	RoleHousekeeper StaffRole = "housekeeper"
	RoleSupervisor  StaffRole = "supervisor"
	RoleManager     StaffRole = "manager"
)

// SingleTaskEnforced reports whether the role is limited to one in_progress
// assignment per work date. Supervisory roles may hold several.
func (r StaffRole) SingleTaskEnforced() bool {
	return r == RoleHousekeeper
}

type Staff struct {
	ID        uuid.UUID `json:"id"`
	HotelID   uuid.UUID `json:"hotel_id"`
	Name      string    `json:"name"`
	Role      StaffRole `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
