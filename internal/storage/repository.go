// ABOUTME: Repository interface for saved workouts.
// ABOUTME: The persistence boundary behind the log-workout save action.
package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/fit/internal/models"
)

// ErrNotFound is returned when no workout matches an id or prefix.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when a prefix matches more than one workout.
var ErrAmbiguous = errors.New("ambiguous prefix")

// Repository defines the storage interface for workouts.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// SaveWorkout stores a complete workout with its exercises and sets.
	SaveWorkout(w *models.Workout) error
	// GetWorkout finds a workout by full id or unique id prefix.
	GetWorkout(idOrPrefix string) (*models.Workout, error)
	// ListWorkouts returns workouts newest first; limit <= 0 means all.
	ListWorkouts(limit int) ([]*models.Workout, error)
	// DeleteWorkout removes a workout with its exercises and sets.
	DeleteWorkout(idOrPrefix string) error

	// Close releases any resources held by the backend.
	Close() error
}

// resolvePrefix picks the single id matching idOrPrefix. An exact match
// always wins over prefix matches.
func resolvePrefix(ids []string, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}
	var matches []string
	for _, id := range ids {
		if id == idOrPrefix {
			return id, nil
		}
		if strings.HasPrefix(id, idOrPrefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w %s: matches multiple records", ErrAmbiguous, idOrPrefix)
	}
}

// sortNewestFirst orders workouts by date descending, keeping ties stable.
func sortNewestFirst(workouts []*models.Workout) {
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})
}

func applyLimit(workouts []*models.Workout, limit int) []*models.Workout {
	if limit > 0 && len(workouts) > limit {
		return workouts[:limit]
	}
	return workouts
}
