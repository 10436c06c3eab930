// ABOUTME: Data migration between workout storage backends.
// ABOUTME: Copies every workout with its exercises and sets from source to destination.
package storage

import (
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Workouts  int
	Exercises int
	Sets      int
}

// MigrateData copies all workouts from src to dst storage, oldest first so
// insertion order matches history. The destination should be empty before
// calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	workouts, err := src.ListWorkouts(0)
	if err != nil {
		return nil, fmt.Errorf("list source workouts: %w", err)
	}

	for i := len(workouts) - 1; i >= 0; i-- {
		w := workouts[i]
		if err := dst.SaveWorkout(w); err != nil {
			return nil, fmt.Errorf("create workout %s: %w", w.ID, err)
		}
		summary.Workouts++
		summary.Exercises += len(w.Exercises)
		summary.Sets += w.SetCount()
	}

	return summary, nil
}
