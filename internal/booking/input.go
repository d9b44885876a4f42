package booking

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validation tags shared by the create inputs and the patch parsers.
const (
	nameTag        = "notblank,max=100"
	passwordTag    = "min=6,max=255"
	capacityTag    = "min=1"
	maxDescription = 255
)

var (
	errWindow = errors.New("endTime must be after startTime")

	errTimeFormat = errors.New("expected an ISO-8601 date-time like 2024-08-25T10:00:00Z")
	errSubSecond  = errors.New("fractional seconds are not supported")

	validate = newValidator() //nolint:gochecknoglobals
)

// timeLayouts are tried in order. Layouts without a zone are read as UTC.
var timeLayouts = []string{ //nolint:gochecknoglobals
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTime reads an ISO-8601 date-time and returns it in UTC. Values are kept
// at second precision, so a non-zero fraction is rejected rather than dropped.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Nanosecond() != 0 {
				return time.Time{}, errSubSecond
			}

			return t.UTC(), nil
		}
	}

	return time.Time{}, errTimeFormat
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Ref references another entity by id.
type Ref struct {
	ID uint64 `json:"id" validate:"required"`
}

// ReservationInput is the body of a reservation create or replace.
type ReservationInput struct {
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	Description string `json:"description" validate:"max=255"`
	User        *Ref   `json:"user" validate:"required"`
	Room        *Ref   `json:"room" validate:"required"`
}

// window validates in and parses its time span.
func (in ReservationInput) window() (Window, error) {
	if err := checkStruct(in); err != nil {
		return Window{}, err
	}

	start, err := ParseTime(in.StartTime)
	if err != nil {
		return Window{}, fieldErr(fieldStartTime, ErrValidation, err)
	}

	end, err := ParseTime(in.EndTime)
	if err != nil {
		return Window{}, fieldErr(fieldEndTime, ErrValidation, err)
	}

	w := Window{Start: start, End: end}
	if !w.Valid() {
		return Window{}, fieldErr(fieldEndTime, ErrValidation, errWindow)
	}

	return w, nil
}

// RoomInput is the body of a room create or replace.
type RoomInput struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Capacity    int    `json:"capacity" validate:"min=1"`
	Description string `json:"description" validate:"max=255"`
}

// RoleInput is the body of a role create or replace.
type RoleInput struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

// UserInput is the body of a user create or replace.
type UserInput struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Password string `json:"password" validate:"min=6,max=255"`
	Role     *Ref   `json:"role" validate:"required"`
}

// Decode unmarshals a JSON request body into v.
// Syntax and type errors are reported as ErrValidation.
func Decode(body []byte, v any) error {
	err := json.Unmarshal(body, v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fieldErr(typeErr.Field, ErrValidation, errors.New("expected "+typeErr.Type.String()))
	}

	return fieldErr("", ErrValidation, err)
}

// DecodePatch unmarshals a JSON object for a partial update.
func DecodePatch(body []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage

	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, fieldErr("", ErrValidation, errors.New("expected a JSON object"))
	}

	return raw, nil
}

func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldErr(fieldPath(verrs[0]), ErrValidation, errors.New("failed on "+verrs[0].Tag()))
	}

	return fieldErr("", ErrValidation, err)
}

func checkVar(field string, v any, kind error, tag string) error {
	err := validate.Var(v, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldErr(field, kind, errors.New("failed on "+verrs[0].Tag()))
	}

	return fieldErr(field, kind, err)
}

// fieldPath strips the struct name from a validator namespace: "ReservationInput.user.id" -> "user.id".
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}

	return path
}
