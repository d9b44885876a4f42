// Package reservation serves the /api/reservations collection. Every write
// goes through the room conflict check and is counted in the
// reservation_writes_total metric.
package reservation

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
	"github.com/MeetingMinder/MeetingMinder/internal/config"
	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
	"github.com/MeetingMinder/MeetingMinder/internal/metrics"
	"github.com/MeetingMinder/MeetingMinder/internal/web/handler"
)

const (
	// Path is the path of the reservations collection below the api prefix.
	Path = "/reservations"

	// Filter query parameters.
	QueryRoomID = "roomId"
	QueryUserID = "userId"
	QueryFrom   = "from"
	QueryTo     = "to"
)

// Service is the reservations handler service.
type Service struct {
	handler.Service
	cfg          *config.Config
	reservations *booking.Reservations
}

// Handler is the reservations handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the reservations routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, svc *booking.Services) error {
	if router == nil || cfg == nil || svc == nil {
		return errors.New(handler.ErrNilARCFatalLogMsg)
	}

	s.cfg = cfg
	s.reservations = svc.Reservations

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

// List returns a page of reservations, optionally narrowed to a room, a user
// and a time window.
func (s *Service) List(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return err
	}

	p, err := handler.ParsePageable(c)
	if err != nil {
		return err
	}

	page, err := s.reservations.List(c.UserContext(), q, p)
	if err != nil {
		return err
	}

	return c.JSON(page)
}

func parseQuery(c *fiber.Ctx) (booking.ReservationQuery, error) {
	var (
		q   booking.ReservationQuery
		err error
	)

	if q.RoomID, err = handler.QueryID(c, QueryRoomID); err != nil {
		return q, err
	}

	if q.UserID, err = handler.QueryID(c, QueryUserID); err != nil {
		return q, err
	}

	if q.From, err = handler.QueryTime(c, QueryFrom); err != nil {
		return q, err
	}

	if q.To, err = handler.QueryTime(c, QueryTo); err != nil {
		return q, err
	}

	return q, nil
}

// Get returns one reservation.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	r, err := s.reservations.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(r)
}

// Create books a room.
func (s *Service) Create(c *fiber.Ctx) error {
	var in booking.ReservationInput
	if err := booking.Decode(c.Body(), &in); err != nil {
		metrics.ReservationWrite(metrics.OpCreate, err)
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	r, err := s.reservations.Create(ctx, in)
	metrics.ReservationWrite(metrics.OpCreate, err)

	if err != nil {
		return err
	}

	logWrite(r, "reservation created")

	return c.Status(fiber.StatusCreated).JSON(r)
}

// Replace overwrites a reservation. It does not conflict with itself.
func (s *Service) Replace(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	var in booking.ReservationInput
	if err = booking.Decode(c.Body(), &in); err != nil {
		metrics.ReservationWrite(metrics.OpReplace, err)
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	r, err := s.reservations.Replace(ctx, id, in)
	metrics.ReservationWrite(metrics.OpReplace, err)

	if err != nil {
		return err
	}

	logWrite(r, "reservation replaced")

	return c.JSON(r)
}

// Patch updates the fields present in the body.
func (s *Service) Patch(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	raw, err := booking.DecodePatch(c.Body())
	if err != nil {
		metrics.ReservationWrite(metrics.OpPatch, err)
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	r, err := s.reservations.Patch(ctx, id, raw)
	metrics.ReservationWrite(metrics.OpPatch, err)

	if err != nil {
		return err
	}

	logWrite(r, "reservation patched")

	return c.JSON(r)
}

// Delete cancels a reservation.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	err = s.reservations.Delete(ctx, id)
	metrics.ReservationWrite(metrics.OpDelete, err)

	if err != nil {
		return err
	}

	log.Info().Uint64("id", id).Msg("reservation deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAll removes every reservation.
func (s *Service) DeleteAll(c *fiber.Ctx) error {
	ctx, cancel := handler.WriteContext(c, s.cfg)
	defer cancel()

	if err := s.reservations.DeleteAll(ctx); err != nil {
		return err
	}

	log.Info().Msg("all reservations deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

func logWrite(r *models.Reservation, msg string) {
	log.Info().
		Uint64("id", r.ID).
		Uint64("roomID", r.RoomID).
		Uint64("userID", r.UserID).
		Time("start", r.StartTime).
		Time("end", r.EndTime).
		Msg(msg)
}
