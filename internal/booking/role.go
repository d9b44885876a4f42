package booking

import (
	"context"
	"encoding/json"

	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
)

// Roles is the role write path.
type Roles struct {
	store *store.Store
}

// NewRoles returns the role service.
func NewRoles(s *store.Store) *Roles {
	return &Roles{store: s}
}

// Create validates in and stores a new role.
func (s *Roles) Create(ctx context.Context, in RoleInput) (*models.Role, error) {
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	role := models.Role{Name: in.Name}
	if err := s.store.SaveRole(ctx, &role); err != nil {
		return nil, err
	}

	return &role, nil
}

// Replace renames role id.
func (s *Roles) Replace(ctx context.Context, id uint64, in RoleInput) (*models.Role, error) {
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	role, err := s.store.FindRole(ctx, id)
	if err != nil {
		return nil, err
	}

	role.Name = in.Name

	if err = s.store.SaveRole(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

// Patch applies the fields present in raw to role id.
func (s *Roles) Patch(ctx context.Context, id uint64, raw map[string]json.RawMessage) (*models.Role, error) {
	existing, err := s.store.FindRole(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := MergeRole(*existing, raw)
	if err != nil {
		return nil, err
	}

	if err = s.store.SaveRole(ctx, &role); err != nil {
		return nil, err
	}

	return &role, nil
}

// Get returns role id.
func (s *Roles) Get(ctx context.Context, id uint64) (*models.Role, error) {
	return s.store.FindRole(ctx, id)
}

// List returns a page of roles.
func (s *Roles) List(ctx context.Context, f store.RoleFilter, p store.Pageable) (store.Page[models.Role], error) {
	page, err := s.store.ListRoles(ctx, f, p)

	return page, listErr(err)
}

// Delete removes role id. Roles assigned to users can not be deleted.
func (s *Roles) Delete(ctx context.Context, id uint64) error {
	return s.store.DeleteRole(ctx, id)
}

// DeleteAll removes every role.
func (s *Roles) DeleteAll(ctx context.Context) error {
	return s.store.DeleteAllRoles(ctx)
}
