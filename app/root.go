// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "meeting-minder",
	Short: "MeetingMinder is a meeting room reservation service",
	Long: `MeetingMinder is a REST service for managing meeting rooms, users
and roles, and for reserving rooms without overlapping bookings.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration directory (default ./etc/)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
