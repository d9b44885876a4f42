package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
	"github.com/MeetingMinder/MeetingMinder/internal/lock"
)

// Error kinds of the error body.
const (
	KindValidation         = "ValidationError"
	KindInvalidFieldValue  = "InvalidFieldValue"
	KindInvalidReferenceID = "InvalidReferenceId"
	KindReferenceNotFound  = "ReferenceNotFound"
	KindRoomReserved       = "RoomAlreadyReserved"
	KindDuplicateName      = "DuplicateName"
	KindInUse              = "InUse"
	KindNotFound           = "NotFound"
	KindUnavailable        = "Unavailable"
	KindInternal           = "InternalError"
)

const msgInternal = "internal server error"

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// kinds maps error kinds to status code and name, in match order.
var kinds = []struct { //nolint:gochecknoglobals
	err    error
	status int
	name   string
}{
	{booking.ErrValidation, fiber.StatusBadRequest, KindValidation},
	{booking.ErrInvalidFieldValue, fiber.StatusBadRequest, KindInvalidFieldValue},
	{booking.ErrInvalidReferenceID, fiber.StatusBadRequest, KindInvalidReferenceID},
	{booking.ErrReferenceNotFound, fiber.StatusBadRequest, KindReferenceNotFound},
	{booking.ErrRoomAlreadyReserved, fiber.StatusConflict, KindRoomReserved},
	{booking.ErrDuplicateName, fiber.StatusConflict, KindDuplicateName},
	{booking.ErrInUse, fiber.StatusConflict, KindInUse},
	{booking.ErrNotFound, fiber.StatusNotFound, KindNotFound},
	{lock.ErrLockTimeout, fiber.StatusServiceUnavailable, KindUnavailable},
	{context.DeadlineExceeded, fiber.StatusServiceUnavailable, KindUnavailable},
}

// StatusFromError returns the status code and error kind of err.
func StatusFromError(err error) (int, string) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status, k.name
		}
	}

	// routing errors and middleware rejections
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, strings.ReplaceAll(http.StatusText(fe.Code), " ", "")
	}

	return fiber.StatusInternalServerError, KindInternal
}

// Body builds the error body of err.
func Body(err error) ErrorBody {
	status, kind := StatusFromError(err)

	body := ErrorBody{Error: kind, Message: err.Error()}

	var fe *booking.FieldError
	if errors.As(err, &fe) {
		body.Field = fe.Field
		if fe.Err != nil {
			body.Message = fe.Err.Error()
		}
	}

	if status >= fiber.StatusInternalServerError && kind == KindInternal {
		body.Message = msgInternal
	}

	return body
}

// ErrorHandler is the fiber error handler of the API.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, _ := StatusFromError(err)

	switch {
	case status >= fiber.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.Path()).Int("status", status).Msg("request failed")
	case status != fiber.StatusNotFound:
		log.Warn().Err(err).Str("path", c.Path()).Int("status", status).Msg("request rejected")
	}

	return c.Status(status).JSON(Body(err))
}
