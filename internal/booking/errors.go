// Package booking implements the write paths of rooms, roles, users and
// reservations: input validation, partial updates and the reservation
// conflict check.
package booking

import (
	"errors"
	"fmt"

	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
)

// Error kinds. Callers match them with errors.Is.
var (
	// ErrValidation reports missing or malformed required input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidFieldValue reports a partial update value of the wrong type or format.
	ErrInvalidFieldValue = errors.New("invalid field value")
	// ErrInvalidReferenceID reports a reference whose id is not a positive integer.
	ErrInvalidReferenceID = errors.New("invalid reference id")
	// ErrReferenceNotFound reports a reference to a missing entity.
	ErrReferenceNotFound = errors.New("referenced entity not found")
	// ErrRoomAlreadyReserved reports a reservation conflicting with an existing one.
	ErrRoomAlreadyReserved = errors.New("room already reserved")

	// ErrNotFound reports an unknown entity id.
	ErrNotFound = store.ErrNotFound
	// ErrDuplicateName reports a taken unique name.
	ErrDuplicateName = store.ErrDuplicateName
	// ErrInUse reports an entity still referenced by others.
	ErrInUse = store.ErrInUse
)

// FieldError ties an error kind to the offending input field.
type FieldError struct {
	Field string
	Kind  error
	Err   error // cause, optional
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Field, e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Field, e.Kind)
}

// Unwrap returns the kind.
func (e *FieldError) Unwrap() error {
	return e.Kind
}

func fieldErr(field string, kind, cause error) error {
	return &FieldError{Field: field, Kind: kind, Err: cause}
}

// listErr reports an unknown sort field as a bad value of the sort parameter.
func listErr(err error) error {
	if errors.Is(err, store.ErrUnknownSortField) {
		return fieldErr("sort", ErrInvalidFieldValue, err)
	}

	return err
}
