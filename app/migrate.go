package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MeetingMinder/MeetingMinder/internal/config"
	"github.com/MeetingMinder/MeetingMinder/internal/daemon"
	"github.com/MeetingMinder/MeetingMinder/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema and seed default roles",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := config.ReadConfig(configPath)
		if err != nil {
			return err
		}

		if err = logger.Init(c.Log); err != nil {
			return err
		}

		db, err := daemon.OpenDB(&c)
		if err != nil {
			return err
		}

		if err = daemon.Migrate(&c, db); err != nil {
			return err
		}

		log.Info().Str("engine", c.DB.GormEngine).Msg("database schema is up to date")

		return nil
	},
}
