// Package role serves the /api/roles collection.
package role

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
	// Path is the path of the roles collection below the api prefix.
	Path = "/roles"

	// QueryName filters roles by a name substring.
	QueryName = "name"
)

// Service is the roles handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	roles *booking.Roles
}

// Handler is the roles handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the roles routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, svc *booking.Services) error {
	if router == nil || cfg == nil || svc == nil {
		return errors.New(handler.ErrNilARCFatalLogMsg)
	}

	s.cfg = cfg
	s.roles = svc.Roles

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

// List returns a page of roles.
func (s *Service) List(c *fiber.Ctx) error {
	p, err := handler.ParsePageable(c)
	if err != nil {
		return err
	}

	page, err := s.roles.List(c.UserContext(), store.RoleFilter{Name: c.Query(QueryName)}, p)
	if err != nil {
		return err
	}

	return c.JSON(page)
}

// Get returns one role.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	role, err := s.roles.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(role)
}

// Create stores a new role.
func (s *Service) Create(c *fiber.Ctx) error {
	var in booking.RoleInput
	if err := booking.Decode(c.Body(), &in); err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	role, err := s.roles.Create(ctx, in)
	if err != nil {
		return err
	}

	log.Info().Uint64("id", role.ID).Str("name", role.Name).Msg("role created")

	return c.Status(fiber.StatusCreated).JSON(role)
}

// Replace overwrites a role.
func (s *Service) Replace(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	var in booking.RoleInput
	if err = booking.Decode(c.Body(), &in); err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	role, err := s.roles.Replace(ctx, id, in)
	if err != nil {
		return err
	}

	return c.JSON(role)
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

	role, err := s.roles.Patch(ctx, id, raw)
	if err != nil {
		return err
	}

	return c.JSON(role)
}

// Delete removes a role.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	if err = s.roles.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Uint64("id", id).Msg("role deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAll removes every role.
func (s *Service) DeleteAll(c *fiber.Ctx) error {
	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	if err := s.roles.DeleteAll(ctx); err != nil {
		return err
	}

	log.Info().Msg("all roles deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
