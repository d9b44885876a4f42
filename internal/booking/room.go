package booking

import (
	"context"
	"encoding/json"

	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
)

// Rooms is the room write path.
type Rooms struct {
	store *store.Store
}

// NewRooms returns the room service.
func NewRooms(s *store.Store) *Rooms {
	return &Rooms{store: s}
}

// Create validates in and stores a new room.
func (s *Rooms) Create(ctx context.Context, in RoomInput) (*models.Room, error) {
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	room := models.Room{Name: in.Name, Capacity: in.Capacity, Description: in.Description}
	if err := s.store.SaveRoom(ctx, &room); err != nil {
		return nil, err
	}

	return &room, nil
}

// Replace overwrites every field of room id with in.
func (s *Rooms) Replace(ctx context.Context, id uint64, in RoomInput) (*models.Room, error) {
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	room, err := s.store.FindRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	room.Name, room.Capacity, room.Description = in.Name, in.Capacity, in.Description

	if err = s.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// Patch applies the fields present in raw to room id.
func (s *Rooms) Patch(ctx context.Context, id uint64, raw map[string]json.RawMessage) (*models.Room, error) {
	existing, err := s.store.FindRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	room, err := MergeRoom(*existing, raw)
	if err != nil {
		return nil, err
	}

	if err = s.store.SaveRoom(ctx, &room); err != nil {
		return nil, err
	}

	return &room, nil
}

// Get returns room id.
func (s *Rooms) Get(ctx context.Context, id uint64) (*models.Room, error) {
	return s.store.FindRoom(ctx, id)
}

// List returns a page of rooms.
func (s *Rooms) List(ctx context.Context, f store.RoomFilter, p store.Pageable) (store.Page[models.Room], error) {
	page, err := s.store.ListRooms(ctx, f, p)

	return page, listErr(err)
}

// Delete removes room id. Rooms with reservations can not be deleted.
func (s *Rooms) Delete(ctx context.Context, id uint64) error {
	return s.store.DeleteRoom(ctx, id)
}

// DeleteAll removes every room.
func (s *Rooms) DeleteAll(ctx context.Context) error {
	return s.store.DeleteAllRooms(ctx)
}
