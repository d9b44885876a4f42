package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
)

// Policy decides whether two reservations touching at an endpoint conflict.
type Policy string

const (
	// HalfOpen treats a window as [start, end): touching windows coexist.
	HalfOpen Policy = "half-open"
	// Inclusive treats a window as [start, end]: touching windows conflict.
	Inclusive Policy = "inclusive"
)

// ErrUnknownPolicy is returned by ParsePolicy.
var ErrUnknownPolicy = errors.New("unknown boundary policy")

// ParsePolicy maps a configured name to a Policy. Empty means HalfOpen.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", HalfOpen:
		return HalfOpen, nil
	case Inclusive:
		return Inclusive, nil
	default:
		return "", errors.Wrapf(ErrUnknownPolicy, "%q", s)
	}
}

// Window is the time span of a reservation.
type Window struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the window starts before it ends.
func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

// Overlaps reports whether a and b conflict under p.
func Overlaps(a, b Window, p Policy) bool {
	if p == Inclusive {
		return !a.Start.After(b.End) && !a.End.Before(b.Start)
	}

	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Overlaps reports whether a and b conflict under p.
func (p Policy) Overlaps(a, b Window) bool {
	return Overlaps(a, b, p)
}

// Finder is the read access the merge and conflict logic needs.
// *store.Store implements it.
type Finder interface {
	FindRoom(ctx context.Context, id uint64) (*models.Room, error)
	FindUser(ctx context.Context, id uint64) (*models.User, error)
	FindRole(ctx context.Context, id uint64) (*models.Role, error)
	FindOverlapping(ctx context.Context, q store.OverlapQuery) ([]models.Reservation, error)
}

// CheckConflict returns ErrRoomAlreadyReserved if a reservation of roomID
// other than excludeID conflicts with w. excludeID 0 excludes nothing.
// It only reads; the caller persists on success.
func CheckConflict(ctx context.Context, f Finder, p Policy, roomID uint64, w Window, excludeID uint64) error {
	found, err := f.FindOverlapping(ctx, store.OverlapQuery{
		RoomID:    roomID,
		Start:     w.Start,
		End:       w.End,
		ExcludeID: excludeID,
		Inclusive: p == Inclusive,
	})
	if err != nil {
		return errors.Wrap(err, "find overlapping reservations")
	}

	for _, r := range found {
		if r.ID == excludeID {
			continue
		}

		if p.Overlaps(Window{Start: r.StartTime, End: r.EndTime}, w) {
			return fmt.Errorf("%w: room %d is booked from %s to %s by reservation %d",
				ErrRoomAlreadyReserved, roomID,
				r.StartTime.UTC().Format(time.RFC3339), r.EndTime.UTC().Format(time.RFC3339), r.ID)
		}
	}

	return nil
}
