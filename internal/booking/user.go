package booking

import (
	"context"
	"encoding/json"

	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
)

// Users is the user write path.
type Users struct {
	store *store.Store
}

// NewUsers returns the user service.
func NewUsers(s *store.Store) *Users {
	return &Users{store: s}
}

// Create validates in, resolves its role and stores a new user.
func (s *Users) Create(ctx context.Context, in UserInput) (*models.User, error) {
	u, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}

	if err = s.store.SaveUser(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// Replace overwrites every field of user id with in.
func (s *Users) Replace(ctx context.Context, id uint64, in UserInput) (*models.User, error) {
	if _, err := s.store.FindUser(ctx, id); err != nil {
		return nil, err
	}

	u, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}

	u.ID = id

	if err = s.store.SaveUser(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// Patch applies the fields present in raw to user id.
func (s *Users) Patch(ctx context.Context, id uint64, raw map[string]json.RawMessage) (*models.User, error) {
	existing, err := s.store.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}

	u, err := MergeUser(ctx, s.store, *existing, raw)
	if err != nil {
		return nil, err
	}

	if err = s.store.SaveUser(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// Get returns user id with its role.
func (s *Users) Get(ctx context.Context, id uint64) (*models.User, error) {
	return s.store.FindUser(ctx, id)
}

// List returns a page of users.
func (s *Users) List(ctx context.Context, f store.UserFilter, p store.Pageable) (store.Page[models.User], error) {
	page, err := s.store.ListUsers(ctx, f, p)

	return page, listErr(err)
}

// Delete removes user id. Users holding reservations can not be deleted.
func (s *Users) Delete(ctx context.Context, id uint64) error {
	return s.store.DeleteUser(ctx, id)
}

// DeleteAll removes every user.
func (s *Users) DeleteAll(ctx context.Context) error {
	return s.store.DeleteAllUsers(ctx)
}

func (s *Users) build(ctx context.Context, in UserInput) (models.User, error) {
	if err := checkStruct(in); err != nil {
		return models.User{}, err
	}

	role, err := resolve(ctx, fieldRole, in.Role.ID, s.store.FindRole)
	if err != nil {
		return models.User{}, err
	}

	return models.User{Name: in.Name, Password: in.Password, RoleID: role.ID, Role: *role}, nil
}
