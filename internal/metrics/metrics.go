// Package metrics holds the prometheus collectors of the reservation write paths.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
	"github.com/MeetingMinder/MeetingMinder/internal/lock"
)

// Write operations.
const (
	OpCreate  = "create"
	OpReplace = "replace"
	OpPatch   = "patch"
	OpDelete  = "delete"
)

// Write outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

var (
	reservationWrites = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "reservation_writes_total",
			Help: "Number of reservation writes, differentiated by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	lockWait = promauto.NewHistogram( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "reservation_lock_wait_seconds",
			Help:    "Time spent waiting for a room lock.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
	)
)

// ReservationWrite counts one reservation write of op ending with err.
func ReservationWrite(op string, err error) {
	reservationWrites.WithLabelValues(op, Outcome(err)).Inc()
}

// ReservationWrites returns the counter of op and outcome.
func ReservationWrites(op, outcome string) prometheus.Counter {
	return reservationWrites.WithLabelValues(op, outcome)
}

// TimedLocker observes how long Lock waits on the wrapped locker.
type TimedLocker struct {
	lock.Locker
}

// Lock implements lock.Locker.
func (l TimedLocker) Lock(ctx context.Context, key string) (lock.Unlock, error) {
	start := time.Now()
	unlock, err := l.Locker.Lock(ctx, key)
	lockWait.Observe(time.Since(start).Seconds())

	return unlock, err
}

// Outcome classifies err into one of the outcome labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, booking.ErrRoomAlreadyReserved):
		return OutcomeConflict
	case errors.Is(err, booking.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, lock.ErrLockTimeout), errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, booking.ErrValidation),
		errors.Is(err, booking.ErrInvalidFieldValue),
		errors.Is(err, booking.ErrInvalidReferenceID),
		errors.Is(err, booking.ErrReferenceNotFound):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
