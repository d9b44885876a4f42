package store

import (
	"context"

	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
)

// UserSortable maps sortable json fields of a user to columns.
var UserSortable = map[string]string{ //nolint:gochecknoglobals
	"name": "name",
}

// UserFilter narrows ListUsers.
type UserFilter struct {
	Name string // case-insensitive substring
	Role string // exact role name
}

const userPreloadRole = "Role"

// FindUser returns the user with id and its role.
func (s *Store) FindUser(ctx context.Context, id uint64) (*models.User, error) {
	return find[models.User](ctx, s.db, id, userPreloadRole)
}

// ListUsers returns a page of users with their roles.
func (s *Store) ListUsers(ctx context.Context, f UserFilter, p Pageable) (Page[models.User], error) {
	q := s.db

	if f.Name != "" {
		q = q.Where(nameLike, contains(f.Name))
	}

	if f.Role != "" {
		q = q.Where("role_id IN (?)", s.db.Model(&models.Role{}).Select("id").Where("name = ?", f.Role))
	}

	return paginate[models.User](ctx, q, p, UserSortable, userPreloadRole)
}

// SaveUser inserts or updates a user. Only RoleID of the role is written.
func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	return save(ctx, s.db, user)
}

// DeleteUser removes the user with id.
func (s *Store) DeleteUser(ctx context.Context, id uint64) error {
	return deleteByID[models.User](ctx, s.db, id)
}

// DeleteAllUsers removes every user.
func (s *Store) DeleteAllUsers(ctx context.Context) error {
	return deleteAll[models.User](ctx, s.db)
}
