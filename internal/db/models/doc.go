// Package models holds the gorm models of the meeting room domain.
// JSON names follow the public REST representation.
package models

// All lists every model for AutoMigrate in dependency order.
func All() []any {
	return []any{&Role{}, &User{}, &Room{}, &Reservation{}}
}
