// ABOUTME: CLI commands for browsing and deleting saved workouts.
// ABOUTME: Supports list, show, and delete subcommands.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fit/internal/models"
	"github.com/harperreed/fit/internal/storage"
	"github.com/spf13/cobra"
)

var (
	workoutsLimit int
	deleteForce   bool
)

var workoutsCmd = &cobra.Command{
	Use:     "workouts",
	Aliases: []string{"w"},
	Short:   "Browse saved workouts",
	Long: `Browse and manage saved workouts.

COMMANDS:

  list     List recent workouts, newest first
  show     View a workout with all its exercises and sets
  delete   Delete a workout

Workouts are addressed by ID or by any unique ID prefix.`,
}

var workoutsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts, err := repo.ListWorkouts(workoutsLimit)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			fmt.Printf("%s %s %s %3d min  %s lbs\n",
				faint.Sprint(padRight(models.ShortID(w.ID), 8)),
				faint.Sprint(w.Date.Local().Format("2006-01-02")),
				padRight(truncate(w.Name, 24), 24),
				w.DurationMinutes,
				formatWeight(w.Volume()))
		}

		return nil
	},
}

var workoutsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := repo.GetWorkout(args[0])
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}

		fmt.Printf("Workout: %s\n", w.Name)
		fmt.Printf("ID: %s\n", w.ID)
		fmt.Printf("Date: %s\n", w.Date.Local().Format("2006-01-02 15:04"))
		fmt.Printf("Duration: %d min\n", w.DurationMinutes)
		fmt.Printf("Volume: %s lbs\n", formatWeight(w.Volume()))
		if w.Notes != nil && *w.Notes != "" {
			fmt.Printf("Notes: %s\n", *w.Notes)
		}

		faint := color.New(color.Faint)
		for _, e := range w.Exercises {
			fmt.Printf("\n%s\n", e.Name)
			if len(e.Sets) == 0 {
				faint.Println("  no sets")
				continue
			}
			for i, s := range e.Sets {
				line := fmt.Sprintf("  %d. %d x %s", i+1, s.Reps, formatWeight(s.Weight))
				if s.Completed {
					fmt.Println(line)
				} else {
					faint.Println(line + " (skipped)")
				}
			}
		}

		return nil
	},
}

var workoutsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := repo.GetWorkout(args[0])
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("workout not found: %s", args[0])
			}
			return fmt.Errorf("failed to get workout: %w", err)
		}

		if !deleteForce {
			fmt.Printf("Delete %q from %s? [y/N]: ", w.Name, w.Date.Local().Format("2006-01-02"))
			var confirm string
			_, _ = fmt.Fscanln(cmd.InOrStdin(), &confirm)
			if !strings.EqualFold(confirm, "y") {
				fmt.Println("Canceled.")
				return nil
			}
		}

		if _, err := fitApp.DeleteWorkout(w.ID); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		color.Green("✓ Deleted %s", w.Name)
		return nil
	},
}

func init() {
	workoutsListCmd.Flags().IntVarP(&workoutsLimit, "limit", "n", 20, "max number of results")
	workoutsDeleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "delete without confirmation")

	workoutsCmd.AddCommand(workoutsListCmd)
	workoutsCmd.AddCommand(workoutsShowCmd)
	workoutsCmd.AddCommand(workoutsDeleteCmd)
	rootCmd.AddCommand(workoutsCmd)
}
