package store

import (
	"context"
	"strings"

	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
)

// RoomSortable maps sortable json fields of a room to columns.
var RoomSortable = map[string]string{ //nolint:gochecknoglobals
	"name":     "name",
	"capacity": "capacity",
}

// RoomFilter narrows ListRooms. Empty fields match everything.
type RoomFilter struct {
	Name string // case-insensitive substring
}

// FindRoom returns the room with id.
func (s *Store) FindRoom(ctx context.Context, id uint64) (*models.Room, error) {
	return find[models.Room](ctx, s.db, id)
}

// ListRooms returns a page of rooms.
func (s *Store) ListRooms(ctx context.Context, f RoomFilter, p Pageable) (Page[models.Room], error) {
	q := s.db

	if f.Name != "" {
		q = q.Where(nameLike, contains(f.Name))
	}

	return paginate[models.Room](ctx, q, p, RoomSortable)
}

// SaveRoom inserts or updates a room.
func (s *Store) SaveRoom(ctx context.Context, room *models.Room) error {
	return save(ctx, s.db, room)
}

// DeleteRoom removes the room with id.
func (s *Store) DeleteRoom(ctx context.Context, id uint64) error {
	return deleteByID[models.Room](ctx, s.db, id)
}

// DeleteAllRooms removes every room.
func (s *Store) DeleteAllRooms(ctx context.Context) error {
	return deleteAll[models.Room](ctx, s.db)
}

const nameLike = "LOWER(name) LIKE ?"

func contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
