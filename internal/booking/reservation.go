package booking

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
	"github.com/MeetingMinder/MeetingMinder/internal/lock"
)

// Reservations is the reservation write path.
//
// Writes that change the time window or the room hold the room lock and run
// the conflict check and the save in one store transaction, so concurrent
// writers of the same room can not both pass the check.
type Reservations struct {
	store  *store.Store
	locker lock.Locker
	policy Policy
}

// NewReservations returns the reservation service.
func NewReservations(s *store.Store, l lock.Locker, p Policy) *Reservations {
	return &Reservations{store: s, locker: l, policy: p}
}

// Policy returns the boundary policy in use.
func (s *Reservations) Policy() Policy {
	return s.policy
}

// ReservationQuery filters List. Zero values match everything.
type ReservationQuery struct {
	RoomID uint64
	UserID uint64
	From   time.Time
	To     time.Time
}

// CheckConflict returns ErrRoomAlreadyReserved if w conflicts with a stored
// reservation of roomID other than excludeID.
func (s *Reservations) CheckConflict(ctx context.Context, roomID uint64, w Window, excludeID uint64) error {
	return CheckConflict(ctx, s.store, s.policy, roomID, w, excludeID)
}

// Create validates in and stores a new reservation.
func (s *Reservations) Create(ctx context.Context, in ReservationInput) (*models.Reservation, error) {
	r, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}

	return s.persist(ctx, &r)
}

// Replace overwrites every field of reservation id with in.
func (s *Reservations) Replace(ctx context.Context, id uint64, in ReservationInput) (*models.Reservation, error) {
	existing, err := s.store.FindReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	r, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}

	r.ID = existing.ID
	r.CreatedAt = existing.CreatedAt

	return s.persist(ctx, &r)
}

// Patch applies the fields present in raw to reservation id.
//
// The patch is applied to the row as read inside the write transaction, not
// to an earlier snapshot. Patches touching startTime, endTime or room hold
// the lock of the resulting room and run the conflict check again; other
// patches only write the description and user columns.
func (s *Reservations) Patch(ctx context.Context, id uint64, raw map[string]json.RawMessage) (*models.Reservation, error) {
	existing, err := s.store.FindReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := ParseReservationPatch(raw)
	if err != nil {
		return nil, err
	}

	if !p.TouchesWindow() {
		return s.patchDetails(ctx, id, p)
	}

	roomID := existing.RoomID
	if p.RoomID != nil {
		roomID = *p.RoomID
	}

	for {
		var movedTo uint64

		if movedTo, err = s.patchWindow(ctx, id, p, roomID); err != nil {
			return nil, err
		}

		if movedTo == 0 {
			return s.Get(ctx, id)
		}

		// moved to another room by a concurrent writer, lock that one instead
		roomID = movedTo
	}
}

func (s *Reservations) patchDetails(ctx context.Context, id uint64, p ReservationPatch) (*models.Reservation, error) {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		fresh, err := tx.FindReservation(ctx, id)
		if err != nil {
			return err
		}

		r, err := p.Apply(ctx, tx, *fresh)
		if err != nil {
			return err
		}

		return tx.UpdateReservationDetails(ctx, &r)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// patchWindow applies p under the lock of roomID. When the fresh row ends up
// in another room nothing is written and that room id is returned.
func (s *Reservations) patchWindow(ctx context.Context, id uint64, p ReservationPatch, roomID uint64) (uint64, error) {
	unlock, err := s.locker.Lock(ctx, lock.RoomKey(roomID))
	if err != nil {
		return 0, err
	}
	defer unlock()

	var movedTo uint64

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		fresh, err := tx.FindReservation(ctx, id)
		if err != nil {
			return err
		}

		r, err := p.Apply(ctx, tx, *fresh)
		if err != nil {
			return err
		}

		if r.RoomID != roomID {
			movedTo = r.RoomID
			return nil
		}

		w := Window{Start: r.StartTime, End: r.EndTime}
		if err = CheckConflict(ctx, tx, s.policy, r.RoomID, w, r.ID); err != nil {
			return err
		}

		return tx.SaveReservation(ctx, &r)
	})

	return movedTo, err
}

// Get returns reservation id.
func (s *Reservations) Get(ctx context.Context, id uint64) (*models.Reservation, error) {
	r, err := s.store.FindReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	toUTC(r)

	return r, nil
}

// List returns a page of reservations. The From/To window follows the boundary policy.
func (s *Reservations) List(
	ctx context.Context, q ReservationQuery, p store.Pageable,
) (store.Page[models.Reservation], error) {
	page, err := s.store.ListReservations(ctx, store.ReservationFilter{
		RoomID:    q.RoomID,
		UserID:    q.UserID,
		From:      q.From,
		To:        q.To,
		Inclusive: s.policy == Inclusive,
	}, p)
	if err != nil {
		return page, listErr(err)
	}

	for i := range page.Content {
		toUTC(&page.Content[i])
	}

	return page, nil
}

// Delete removes reservation id.
func (s *Reservations) Delete(ctx context.Context, id uint64) error {
	return s.store.DeleteReservation(ctx, id)
}

// DeleteAll removes every reservation.
func (s *Reservations) DeleteAll(ctx context.Context) error {
	return s.store.DeleteAllReservations(ctx)
}

// build validates in and resolves its user and room.
func (s *Reservations) build(ctx context.Context, in ReservationInput) (models.Reservation, error) {
	w, err := in.window()
	if err != nil {
		return models.Reservation{}, err
	}

	u, err := resolve(ctx, fieldUser, in.User.ID, s.store.FindUser)
	if err != nil {
		return models.Reservation{}, err
	}

	room, err := resolve(ctx, fieldRoom, in.Room.ID, s.store.FindRoom)
	if err != nil {
		return models.Reservation{}, err
	}

	return models.Reservation{
		StartTime:   w.Start,
		EndTime:     w.End,
		Description: in.Description,
		UserID:      u.ID,
		User:        *u,
		RoomID:      room.ID,
		Room:        *room,
	}, nil
}

// persist checks r against the other reservations of its room and saves it,
// holding the room lock.
func (s *Reservations) persist(ctx context.Context, r *models.Reservation) (*models.Reservation, error) {
	unlock, err := s.locker.Lock(ctx, lock.RoomKey(r.RoomID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if r.ID != 0 {
			// deleted while we were building
			if _, err := tx.FindReservation(ctx, r.ID); err != nil {
				return err
			}
		}

		w := Window{Start: r.StartTime, End: r.EndTime}
		if err := CheckConflict(ctx, tx, s.policy, r.RoomID, w, r.ID); err != nil {
			return err
		}

		return tx.SaveReservation(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, r.ID)
}

func toUTC(r *models.Reservation) {
	r.StartTime = r.StartTime.UTC()
	r.EndTime = r.EndTime.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
}
