package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
)

// Patch field names.
const (
	fieldStartTime   = "startTime"
	fieldEndTime     = "endTime"
	fieldDescription = "description"
	fieldUser        = "user"
	fieldRoom        = "room"
	fieldRole        = "role"
	fieldName        = "name"
	fieldCapacity    = "capacity"
	fieldPassword    = "password"
)

var errNull = errors.New("null is not allowed")

// Patches are parsed completely before anything is applied, and Apply works
// on a copy: a failing patch never leaves a half updated entity behind.
// Keys a patch does not know are ignored.

// ReservationPatch is a parsed partial update of a reservation.
type ReservationPatch struct {
	StartTime   *time.Time
	EndTime     *time.Time
	Description *string
	UserID      *uint64
	RoomID      *uint64
}

// ParseReservationPatch parses startTime, endTime, description, user and room.
func ParseReservationPatch(raw map[string]json.RawMessage) (ReservationPatch, error) {
	var (
		p   ReservationPatch
		err error
	)

	if v, ok := raw[fieldStartTime]; ok {
		if p.StartTime, err = parseTimeField(fieldStartTime, v); err != nil {
			return ReservationPatch{}, err
		}
	}

	if v, ok := raw[fieldEndTime]; ok {
		if p.EndTime, err = parseTimeField(fieldEndTime, v); err != nil {
			return ReservationPatch{}, err
		}
	}

	if v, ok := raw[fieldDescription]; ok {
		if p.Description, err = parseOptionalString(fieldDescription, v, maxDescription); err != nil {
			return ReservationPatch{}, err
		}
	}

	if v, ok := raw[fieldUser]; ok {
		if p.UserID, err = parseRef(fieldUser, v); err != nil {
			return ReservationPatch{}, err
		}
	}

	if v, ok := raw[fieldRoom]; ok {
		if p.RoomID, err = parseRef(fieldRoom, v); err != nil {
			return ReservationPatch{}, err
		}
	}

	return p, nil
}

// TouchesWindow reports whether the patch moves the reservation in time or space.
func (p ReservationPatch) TouchesWindow() bool {
	return p.StartTime != nil || p.EndTime != nil || p.RoomID != nil
}

// Apply resolves the references of p through f and returns existing with p applied.
func (p ReservationPatch) Apply(ctx context.Context, f Finder, existing models.Reservation) (models.Reservation, error) {
	out := existing

	if p.UserID != nil {
		u, err := resolve(ctx, fieldUser, *p.UserID, f.FindUser)
		if err != nil {
			return existing, err
		}

		out.User, out.UserID = *u, u.ID
	}

	if p.RoomID != nil {
		r, err := resolve(ctx, fieldRoom, *p.RoomID, f.FindRoom)
		if err != nil {
			return existing, err
		}

		out.Room, out.RoomID = *r, r.ID
	}

	if p.StartTime != nil {
		out.StartTime = *p.StartTime
	}

	if p.EndTime != nil {
		out.EndTime = *p.EndTime
	}

	if p.Description != nil {
		out.Description = *p.Description
	}

	if !(Window{Start: out.StartTime, End: out.EndTime}).Valid() {
		return existing, fieldErr(fieldEndTime, ErrValidation, errWindow)
	}

	return out, nil
}

// MergeReservation parses raw and applies it to existing.
func MergeReservation(
	ctx context.Context, f Finder, existing models.Reservation, raw map[string]json.RawMessage,
) (models.Reservation, ReservationPatch, error) {
	p, err := ParseReservationPatch(raw)
	if err != nil {
		return existing, p, err
	}

	out, err := p.Apply(ctx, f, existing)

	return out, p, err
}

// RoomPatch is a parsed partial update of a room.
type RoomPatch struct {
	Name        *string
	Capacity    *int
	Description *string
}

// ParseRoomPatch parses name, capacity and description.
func ParseRoomPatch(raw map[string]json.RawMessage) (RoomPatch, error) {
	var (
		p   RoomPatch
		err error
	)

	if v, ok := raw[fieldName]; ok {
		if p.Name, err = parseName(fieldName, v); err != nil {
			return RoomPatch{}, err
		}
	}

	if v, ok := raw[fieldCapacity]; ok {
		if p.Capacity, err = parseCapacity(fieldCapacity, v); err != nil {
			return RoomPatch{}, err
		}
	}

	if v, ok := raw[fieldDescription]; ok {
		if p.Description, err = parseOptionalString(fieldDescription, v, maxDescription); err != nil {
			return RoomPatch{}, err
		}
	}

	return p, nil
}

// Apply returns existing with p applied.
func (p RoomPatch) Apply(existing models.Room) models.Room {
	out := existing

	if p.Name != nil {
		out.Name = *p.Name
	}

	if p.Capacity != nil {
		out.Capacity = *p.Capacity
	}

	if p.Description != nil {
		out.Description = *p.Description
	}

	return out
}

// MergeRoom parses raw and applies it to existing.
func MergeRoom(existing models.Room, raw map[string]json.RawMessage) (models.Room, error) {
	p, err := ParseRoomPatch(raw)
	if err != nil {
		return existing, err
	}

	return p.Apply(existing), nil
}

// RolePatch is a parsed partial update of a role.
type RolePatch struct {
	Name *string
}

// ParseRolePatch parses name.
func ParseRolePatch(raw map[string]json.RawMessage) (RolePatch, error) {
	var (
		p   RolePatch
		err error
	)

	if v, ok := raw[fieldName]; ok {
		if p.Name, err = parseName(fieldName, v); err != nil {
			return RolePatch{}, err
		}
	}

	return p, nil
}

// Apply returns existing with p applied.
func (p RolePatch) Apply(existing models.Role) models.Role {
	out := existing

	if p.Name != nil {
		out.Name = *p.Name
	}

	return out
}

// MergeRole parses raw and applies it to existing.
func MergeRole(existing models.Role, raw map[string]json.RawMessage) (models.Role, error) {
	p, err := ParseRolePatch(raw)
	if err != nil {
		return existing, err
	}

	return p.Apply(existing), nil
}

// UserPatch is a parsed partial update of a user.
type UserPatch struct {
	Name     *string
	Password *string
	RoleID   *uint64
}

// ParseUserPatch parses name, password and role.
func ParseUserPatch(raw map[string]json.RawMessage) (UserPatch, error) {
	var (
		p   UserPatch
		err error
	)

	if v, ok := raw[fieldName]; ok {
		if p.Name, err = parseName(fieldName, v); err != nil {
			return UserPatch{}, err
		}
	}

	if v, ok := raw[fieldPassword]; ok {
		if p.Password, err = parsePassword(fieldPassword, v); err != nil {
			return UserPatch{}, err
		}
	}

	if v, ok := raw[fieldRole]; ok {
		if p.RoleID, err = parseRef(fieldRole, v); err != nil {
			return UserPatch{}, err
		}
	}

	return p, nil
}

// Apply resolves the role of p through f and returns existing with p applied.
func (p UserPatch) Apply(ctx context.Context, f Finder, existing models.User) (models.User, error) {
	out := existing

	if p.RoleID != nil {
		r, err := resolve(ctx, fieldRole, *p.RoleID, f.FindRole)
		if err != nil {
			return existing, err
		}

		out.Role, out.RoleID = *r, r.ID
	}

	if p.Name != nil {
		out.Name = *p.Name
	}

	if p.Password != nil {
		out.Password = *p.Password
	}

	return out, nil
}

// MergeUser parses raw and applies it to existing.
func MergeUser(ctx context.Context, f Finder, existing models.User, raw map[string]json.RawMessage) (models.User, error) {
	p, err := ParseUserPatch(raw)
	if err != nil {
		return existing, err
	}

	return p.Apply(ctx, f, existing)
}

func resolve[T any](
	ctx context.Context, field string, id uint64, find func(context.Context, uint64) (*T, error),
) (*T, error) {
	v, err := find(ctx, id)

	switch {
	case errors.Is(err, ErrNotFound):
		return nil, fieldErr(field, ErrReferenceNotFound, errors.New("id "+strconv.FormatUint(id, 10)))
	case err != nil:
		return nil, err
	}

	return v, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func parseString(field string, raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", fieldErr(field, ErrInvalidFieldValue, errNull)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fieldErr(field, ErrInvalidFieldValue, errors.New("expected a string"))
	}

	return s, nil
}

// parseOptionalString maps null to the empty string.
func parseOptionalString(field string, raw json.RawMessage, maxLen int) (*string, error) {
	if isNull(raw) {
		empty := ""
		return &empty, nil
	}

	s, err := parseString(field, raw)
	if err != nil {
		return nil, err
	}

	if err = checkVar(field, s, ErrInvalidFieldValue, "max="+strconv.Itoa(maxLen)); err != nil {
		return nil, err
	}

	return &s, nil
}

func parseName(field string, raw json.RawMessage) (*string, error) {
	s, err := parseString(field, raw)
	if err != nil {
		return nil, err
	}

	if err = checkVar(field, s, ErrInvalidFieldValue, nameTag); err != nil {
		return nil, err
	}

	return &s, nil
}

func parsePassword(field string, raw json.RawMessage) (*string, error) {
	s, err := parseString(field, raw)
	if err != nil {
		return nil, err
	}

	if err = checkVar(field, s, ErrInvalidFieldValue, passwordTag); err != nil {
		return nil, err
	}

	return &s, nil
}

func parseCapacity(field string, raw json.RawMessage) (*int, error) {
	n, err := parseNumber(raw)
	if err != nil {
		return nil, fieldErr(field, ErrInvalidFieldValue, err)
	}

	c, err := strconv.Atoi(n.String())
	if err != nil {
		return nil, fieldErr(field, ErrInvalidFieldValue, errors.New("expected an integer"))
	}

	if err = checkVar(field, c, ErrInvalidFieldValue, capacityTag); err != nil {
		return nil, err
	}

	return &c, nil
}

func parseTimeField(field string, raw json.RawMessage) (*time.Time, error) {
	s, err := parseString(field, raw)
	if err != nil {
		return nil, err
	}

	t, err := ParseTime(s)
	if err != nil {
		return nil, fieldErr(field, ErrInvalidFieldValue, err)
	}

	return &t, nil
}

// parseRef reads {"id": <positive integer>}.
func parseRef(field string, raw json.RawMessage) (*uint64, error) {
	if isNull(raw) {
		return nil, fieldErr(field, ErrInvalidFieldValue, errNull)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fieldErr(field, ErrInvalidFieldValue, errors.New("expected an object with an id"))
	}

	rawID, ok := obj["id"]
	if !ok {
		return nil, fieldErr(field, ErrInvalidReferenceID, errors.New("missing id"))
	}

	n, err := parseNumber(rawID)
	if err != nil {
		return nil, fieldErr(field, ErrInvalidReferenceID, err)
	}

	id, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil || id == 0 {
		return nil, fieldErr(field, ErrInvalidReferenceID, errors.New("id must be a positive integer"))
	}

	return &id, nil
}

func parseNumber(raw json.RawMessage) (json.Number, error) {
	var v any

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := dec.Decode(&v); err != nil {
		return "", errors.New("expected a number")
	}

	n, ok := v.(json.Number)
	if !ok {
		return "", errors.New("expected a number")
	}

	return n, nil
}
