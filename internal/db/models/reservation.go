package models

import "time"

// Reservation books a room for a user between StartTime and EndTime.
// For any room the stored reservations never conflict with each other.
type Reservation struct {
	// ID is the unique identifier for the reservation.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// StartTime is the UTC begin of the reservation.
	StartTime time.Time `gorm:"not null;index:idx_reservations_room_window,priority:2" json:"startTime"`
	// EndTime is the UTC end of the reservation, after StartTime.
	EndTime time.Time `gorm:"not null" json:"endTime"`
	// Description is an optional note.
	Description string `gorm:"size:255" json:"description"`
	// CreatedAt is set once on insert.
	CreatedAt time.Time `gorm:"autoCreateTime;<-:create" json:"createdAt"`
	// UpdatedAt is refreshed on every save.
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	// UserID references the user holding the reservation.
	UserID uint64 `gorm:"column:user_id;not null;index" json:"-"`
	// User is the associated user.
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"user"`
	// RoomID references the reserved room.
	RoomID uint64 `gorm:"column:room_id;not null;index:idx_reservations_room_window,priority:1" json:"-"`
	// Room is the associated room.
	Room Room `gorm:"foreignKey:RoomID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"room"`
}

// TableName specifies the database table name for the Reservation model.
func (Reservation) TableName() string {
	return "reservations"
}
