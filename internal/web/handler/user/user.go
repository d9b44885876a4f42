// Package user serves the /api/users collection. Passwords are accepted on
// writes and never returned.
package user

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
	// Path is the path of the users collection below the api prefix.
	Path = "/users"

	// QueryName filters users by a name substring.
	QueryName = "name"

	// QueryRole filters users by the exact name of their role.
	QueryRole = "role"
)

// Service is the users handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	users *booking.Users
}

// Handler is the users handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the users routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, svc *booking.Services) error {
	if router == nil || cfg == nil || svc == nil {
		return errors.New(handler.ErrNilARCFatalLogMsg)
	}

	s.cfg = cfg
	s.users = svc.Users

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

// List returns a page of users with their roles.
func (s *Service) List(c *fiber.Ctx) error {
	p, err := handler.ParsePageable(c)
	if err != nil {
		return err
	}

	filter := store.UserFilter{
		Name: c.Query(QueryName),
		Role: c.Query(QueryRole),
	}

	page, err := s.users.List(c.UserContext(), filter, p)
	if err != nil {
		return err
	}

	return c.JSON(page)
}

// Get returns one user.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	u, err := s.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(u)
}

// Create stores a new user.
func (s *Service) Create(c *fiber.Ctx) error {
	var in booking.UserInput
	if err := booking.Decode(c.Body(), &in); err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	u, err := s.users.Create(ctx, in)
	if err != nil {
		return err
	}

	log.Info().Uint64("id", u.ID).Str("name", u.Name).Str("role", u.Role.Name).Msg("user created")

	return c.Status(fiber.StatusCreated).JSON(u)
}

// Replace overwrites a user, password included.
func (s *Service) Replace(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	var in booking.UserInput
	if err = booking.Decode(c.Body(), &in); err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	u, err := s.users.Replace(ctx, id, in)
	if err != nil {
		return err
	}

	return c.JSON(u)
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

	u, err := s.users.Patch(ctx, id, raw)
	if err != nil {
		return err
	}

	return c.JSON(u)
}

// Delete removes a user. Users holding reservations are kept (409).
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	if err = s.users.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Uint64("id", id).Msg("user deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAll removes every user.
func (s *Service) DeleteAll(c *fiber.Ctx) error {
	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	if err := s.users.DeleteAll(ctx); err != nil {
		return err
	}

	log.Info().Msg("all users deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
