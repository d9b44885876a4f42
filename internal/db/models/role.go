package models

// Role is a named user category. It carries no permissions.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the unique name of the role (e.g. "Admin").
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
