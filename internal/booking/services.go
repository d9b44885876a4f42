package booking

import (
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
	"github.com/MeetingMinder/MeetingMinder/internal/lock"
)

// Services bundles the write paths handed to the web handlers.
type Services struct {
	Reservations *Reservations
	Rooms        *Rooms
	Roles        *Roles
	Users        *Users
}

// NewServices builds all write paths on s.
func NewServices(s *store.Store, l lock.Locker, p Policy) *Services {
	return &Services{
		Reservations: NewReservations(s, l, p),
		Rooms:        NewRooms(s),
		Roles:        NewRoles(s),
		Users:        NewUsers(s),
	}
}
