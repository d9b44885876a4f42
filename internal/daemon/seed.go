package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/MeetingMinder/MeetingMinder/internal/config"
	"github.com/MeetingMinder/MeetingMinder/internal/db/models"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
)

// seed creates the configured roles that do not exist yet.
func seed(cfg *config.Config, s *store.Store) error {
	ctx := context.Background()

	for _, name := range cfg.Seed.Roles {
		_, err := s.FindRoleByName(ctx, name)
		if err == nil {
			continue
		}

		if !errors.Is(err, store.ErrNotFound) {
			return errors.Wrapf(err, "seed role %q", name)
		}

		role := models.Role{Name: name}
		if err = s.SaveRole(ctx, &role); err != nil {
			return errors.Wrapf(err, "seed role %q", name)
		}

		log.Info().Uint64("id", role.ID).Str("role", name).Msg("role seeded")
	}

	return nil
}
