package store

import (
	"context"

	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
)

// RoleSortable maps sortable json fields of a role to columns.
var RoleSortable = map[string]string{ //nolint:gochecknoglobals
	"name": "name",
}

// RoleFilter narrows ListRoles.
type RoleFilter struct {
	Name string // case-insensitive substring
}

// FindRole returns the role with id.
func (s *Store) FindRole(ctx context.Context, id uint64) (*models.Role, error) {
	return find[models.Role](ctx, s.db, id)
}

// FindRoleByName returns the role named name.
func (s *Store) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role

	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, translate(err)
	}

	return &role, nil
}

// ListRoles returns a page of roles.
func (s *Store) ListRoles(ctx context.Context, f RoleFilter, p Pageable) (Page[models.Role], error) {
	q := s.db

	if f.Name != "" {
		q = q.Where(nameLike, contains(f.Name))
	}

	return paginate[models.Role](ctx, q, p, RoleSortable)
}

// SaveRole inserts or updates a role.
func (s *Store) SaveRole(ctx context.Context, role *models.Role) error {
	return save(ctx, s.db, role)
}

// DeleteRole removes the role with id.
func (s *Store) DeleteRole(ctx context.Context, id uint64) error {
	return deleteByID[models.Role](ctx, s.db, id)
}

// DeleteAllRoles removes every role.
func (s *Store) DeleteAllRoles(ctx context.Context) error {
	return deleteAll[models.Role](ctx, s.db)
}
