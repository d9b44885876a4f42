package models

// User represents a person that reserves rooms.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the unique user name.
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	// Password is stored as provided and never serialized.
	Password string `gorm:"size:255;not null" json:"-"`
	// RoleID is the ID of the role assigned to this user.
	RoleID uint64 `gorm:"column:role_id;not null" json:"-"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"role"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}
