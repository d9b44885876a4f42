package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
	"github.com/MeetingMinder/MeetingMinder/internal/config"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
)

var (
	errNotPositive = errors.New("must be a positive integer")
	errNegative    = errors.New("must not be negative")
	errPageSize    = errors.New("must be between 1 and 100")
	errSortOrder   = errors.New("sort order must be asc or desc")
)

// ParseID reads the id route parameter.
func ParseID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(ParamID), 10, 64)
	if err != nil || id == 0 {
		return 0, &booking.FieldError{Field: ParamID, Kind: booking.ErrValidation, Err: errNotPositive}
	}

	return id, nil
}

// QueryID reads an optional positive integer query parameter. Missing reads as 0.
func QueryID(c *fiber.Ctx, name string) (uint64, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}

	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, &booking.FieldError{Field: name, Kind: booking.ErrInvalidFieldValue, Err: errNotPositive}
	}

	return id, nil
}

// QueryTime reads an optional ISO-8601 query parameter. Missing reads as the zero time.
func QueryTime(c *fiber.Ctx, name string) (time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return time.Time{}, nil
	}

	t, err := booking.ParseTime(v)
	if err != nil {
		return time.Time{}, &booking.FieldError{Field: name, Kind: booking.ErrInvalidFieldValue, Err: err}
	}

	return t, nil
}

// ParsePageable reads page, size and sort ("field" or "field,desc").
func ParsePageable(c *fiber.Ctx) (store.Pageable, error) {
	p := store.Pageable{Size: DefaultPageSize}

	if v := c.Query(QueryPage); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			return p, &booking.FieldError{Field: QueryPage, Kind: booking.ErrInvalidFieldValue, Err: errNegative}
		}

		p.Page = page
	}

	if v := c.Query(QuerySize); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > MaxPageSize {
			return p, &booking.FieldError{Field: QuerySize, Kind: booking.ErrInvalidFieldValue, Err: errPageSize}
		}

		p.Size = size
	}

	field, order, _ := strings.Cut(c.Query(QuerySort), ",")
	p.Sort = strings.TrimSpace(field)

	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
	case "desc":
		p.Desc = true
	default:
		return p, &booking.FieldError{Field: QuerySort, Kind: booking.ErrInvalidFieldValue, Err: errSortOrder}
	}

	return p, nil
}

// WriteContext bounds a write by the configured write timeout.
func WriteContext(c *fiber.Ctx, cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), time.Duration(cfg.Webserver.WriteTimeout)*time.Second)
}
