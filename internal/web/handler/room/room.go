// Package room serves the /api/rooms collection.
package room

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
	"github.com/MeetingMinder/MeetingMinder/internal/config"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
	"github.com/MeetingMinder/MeetingMinder/internal/web/handler"
)

const (
	// Path is the path of the rooms collection below the api prefix.
	Path = "/rooms"

	// QueryName filters rooms by a name substring.
	QueryName = "name"
)

// Service is the rooms handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	rooms *booking.Rooms
}

// Handler is the rooms handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the rooms routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, svc *booking.Services) error {
	if router == nil || cfg == nil || svc == nil {
		return errors.New(handler.ErrNilARCFatalLogMsg)
	}

	s.cfg = cfg
	s.rooms = svc.Rooms

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RootPath, s.List)
		r.Post(handler.RootPath, s.Create)
		r.Delete(handler.RootPath, s.DeleteAll)
		r.Get(handler.IDPath, s.Get)
		r.Put(handler.IDPath, s.Replace)
		r.Patch(handler.IDPath, s.Patch)
		r.Delete(handler.IDPath, s.Delete)
	})

	return nil
}

// List returns a page of rooms.
func (s *Service) List(c *fiber.Ctx) error {
	p, err := handler.ParsePageable(c)
	if err != nil {
		return err
	}

	page, err := s.rooms.List(c.UserContext(), store.RoomFilter{Name: c.Query(QueryName)}, p)
	if err != nil {
		return err
	}

	return c.JSON(page)
}

// Get returns one room.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	room, err := s.rooms.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(room)
}

// Create stores a new room.
func (s *Service) Create(c *fiber.Ctx) error {
	var in booking.RoomInput
	if err := booking.Decode(c.Body(), &in); err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	room, err := s.rooms.Create(ctx, in)
	if err != nil {
		return err
	}

	log.Info().Uint64("id", room.ID).Str("name", room.Name).Msg("room created")

	return c.Status(fiber.StatusCreated).JSON(room)
}

// Replace overwrites a room.
func (s *Service) Replace(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	var in booking.RoomInput
	if err = booking.Decode(c.Body(), &in); err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	room, err := s.rooms.Replace(ctx, id, in)
	if err != nil {
		return err
	}

	return c.JSON(room)
}

// Patch updates the fields present in the body.
func (s *Service) Patch(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	raw, err := booking.DecodePatch(c.Body())
	if err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	room, err := s.rooms.Patch(ctx, id, raw)
	if err != nil {
		return err
	}

	return c.JSON(room)
}

// Delete removes a room.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	if err = s.rooms.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Uint64("id", id).Msg("room deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAll removes every room.
func (s *Service) DeleteAll(c *fiber.Ctx) error {
	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	if err := s.rooms.DeleteAll(ctx); err != nil {
		return err
	}

	log.Info().Msg("all rooms deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
