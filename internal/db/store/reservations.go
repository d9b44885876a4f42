package store

import (
	"context"
	"time"

	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
)

// ReservationSortable maps sortable json fields of a reservation to columns.
var ReservationSortable = map[string]string{ //nolint:gochecknoglobals
	"startTime": "start_time",
	"endTime":   "end_time",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

var reservationPreloads = []string{"User.Role", "Room"} //nolint:gochecknoglobals

// OverlapQuery selects the reservations of a room that conflict with [Start, End].
type OverlapQuery struct {
	RoomID uint64
	Start  time.Time
	End    time.Time
	// ExcludeID skips one reservation, 0 skips none.
	ExcludeID uint64
	// Inclusive treats touching intervals as conflicting.
	Inclusive bool
}

// ReservationFilter narrows ListReservations. Zero values match everything.
type ReservationFilter struct {
	RoomID    uint64
	UserID    uint64
	From      time.Time
	To        time.Time
	Inclusive bool // boundary policy of the From/To window
}

const (
	overlapHalfOpen  = "start_time < ? AND end_time > ?"
	overlapInclusive = "start_time <= ? AND end_time >= ?"
	endsAfter        = "end_time > ?"
	endsAtOrAfter    = "end_time >= ?"
	startsBefore     = "start_time < ?"
	startsAtOrBefore = "start_time <= ?"
)

// FindReservation returns the reservation with id, its user and room.
func (s *Store) FindReservation(ctx context.Context, id uint64) (*models.Reservation, error) {
	return find[models.Reservation](ctx, s.db, id, reservationPreloads...)
}

// FindOverlapping returns the reservations conflicting with q ordered by start time.
// Associations are not loaded.
func (s *Store) FindOverlapping(ctx context.Context, q OverlapQuery) ([]models.Reservation, error) {
	var out []models.Reservation

	predicate := overlapHalfOpen
	if q.Inclusive {
		predicate = overlapInclusive
	}

	tx := s.db.WithContext(ctx).
		Where("room_id = ?", q.RoomID).
		Where(predicate, q.End, q.Start)

	if q.ExcludeID != 0 {
		tx = tx.Where("id <> ?", q.ExcludeID)
	}

	if err := tx.Order("start_time").Find(&out).Error; err != nil {
		return nil, translate(err)
	}

	return out, nil
}

// ListReservations returns a page of reservations with user and room.
func (s *Store) ListReservations(
	ctx context.Context, f ReservationFilter, p Pageable,
) (Page[models.Reservation], error) {
	q := s.db

	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}

	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}

	if !f.From.IsZero() {
		if f.Inclusive {
			q = q.Where(endsAtOrAfter, f.From)
		} else {
			q = q.Where(endsAfter, f.From)
		}
	}

	if !f.To.IsZero() {
		if f.Inclusive {
			q = q.Where(startsAtOrBefore, f.To)
		} else {
			q = q.Where(startsBefore, f.To)
		}
	}

	return paginate[models.Reservation](ctx, q, p, ReservationSortable, reservationPreloads...)
}

// SaveReservation inserts or updates a reservation. Only the user and room ids are written.
func (s *Store) SaveReservation(ctx context.Context, r *models.Reservation) error {
	return save(ctx, s.db, r)
}

// UpdateReservationDetails writes the description and user of r and bumps
// updated_at. The room and time window columns are left untouched.
func (s *Store) UpdateReservationDetails(ctx context.Context, r *models.Reservation) error {
	r.UpdatedAt = s.db.NowFunc()

	res := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", r.ID).
		Updates(map[string]any{
			"description": r.Description,
			"user_id":     r.UserID,
			"updated_at":  r.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteReservation removes the reservation with id.
func (s *Store) DeleteReservation(ctx context.Context, id uint64) error {
	return deleteByID[models.Reservation](ctx, s.db, id)
}

// DeleteAllReservations removes every reservation.
func (s *Store) DeleteAllReservations(ctx context.Context) error {
	return deleteAll[models.Reservation](ctx, s.db)
}
