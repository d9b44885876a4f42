package models

// Room represents a bookable meeting room.
type Room struct {
	// ID is the unique identifier for the room.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the unique display name of the room.
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	// Capacity is the number of seats, at least 1.
	Capacity int `gorm:"not null" json:"capacity"`
	// Description is free text shown next to the name.
	Description string `gorm:"size:255" json:"description"`
}

// TableName specifies the database table name for the Room model.
func (Room) TableName() string {
	return "rooms"
}
