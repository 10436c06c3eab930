// ABOUTME: CLI command for migrating workouts between storage backends.
// ABOUTME: Opens both backends from the config and copies every workout.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/fit/internal/config"
	"github.com/harperreed/fit/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:         "migrate",
	Short:       "Copy workouts between storage backends",
	Annotations: map[string]string{skipStorage: ""},
	Long: `Copy every workout, with its exercises and sets, from one storage
backend to another.

IMPORTANT:

  - The destination should be empty; existing IDs cause an error
  - Run with --dry-run first to see what would be migrated
  - The configured backend is not changed; switch it afterwards with
    'fit config set backend <name>'

USAGE:

  fit migrate --from sqlite --to charm --dry-run
  fit migrate --from sqlite --to charm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %q", migrateFrom)
		}

		base, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		src, err := openBackend(base, migrateFrom)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer func() { _ = src.Close() }()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			workouts, err := src.ListWorkouts(0)
			if err != nil {
				return fmt.Errorf("failed to list source workouts: %w", err)
			}
			sets := 0
			for _, w := range workouts {
				sets += w.SetCount()
			}
			fmt.Printf("Would migrate %d workouts (%d sets) from %s to %s\n",
				len(workouts), sets, migrateFrom, migrateTo)
			return nil
		}

		dst, err := openBackend(base, migrateTo)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() { _ = dst.Close() }()

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s to %s", migrateFrom, migrateTo)
		fmt.Printf("  Workouts: %d\n", summary.Workouts)
		fmt.Printf("  Exercises: %d\n", summary.Exercises)
		fmt.Printf("  Sets: %d\n", summary.Sets)
		return nil
	},
}

// openBackend opens the named backend using the rest of base's settings.
func openBackend(base *config.Config, backend string) (storage.Repository, error) {
	c := *base
	if err := c.Set("backend", backend); err != nil {
		return nil, err
	}
	return c.OpenStorage(time.Now())
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendSQLite, "source backend (memory, sqlite, charm)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendCharm, "destination backend (memory, sqlite, charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
