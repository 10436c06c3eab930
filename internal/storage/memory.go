// ABOUTME: In-memory Repository used for the default session.
// ABOUTME: Starts from the demo workouts and forgets everything on exit.
package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/harperreed/fit/internal/models"
)

// MemoryStore keeps workouts in a slice, newest first.
type MemoryStore struct {
	mu       sync.RWMutex
	workouts []*models.Workout
}

// Compile-time check that MemoryStore implements Repository.
var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewDemoStore creates a store holding the demo workouts dated around now.
func NewDemoStore(now time.Time) *MemoryStore {
	return &MemoryStore{workouts: models.DemoWorkouts(now)}
}

// SaveWorkout prepends a copy of w.
func (s *MemoryStore) SaveWorkout(w *models.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.workouts {
		if existing.ID == w.ID {
			return fmt.Errorf("save workout: duplicate id %s", w.ID)
		}
	}
	next := make([]*models.Workout, 0, len(s.workouts)+1)
	next = append(next, w.Clone())
	s.workouts = append(next, s.workouts...)
	return nil
}

// GetWorkout retrieves a workout by ID or ID prefix.
func (s *MemoryStore) GetWorkout(idOrPrefix string) (*models.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, err := resolvePrefix(s.ids(), idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}
	for _, w := range s.workouts {
		if w.ID == id {
			return w.Clone(), nil
		}
	}
	return nil, fmt.Errorf("get workout: %w: %s", ErrNotFound, idOrPrefix)
}

// ListWorkouts returns copies of the stored workouts, newest first.
func (s *MemoryStore) ListWorkouts(limit int) ([]*models.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Workout, 0, len(s.workouts))
	for _, w := range s.workouts {
		out = append(out, w.Clone())
	}
	sortNewestFirst(out)
	return applyLimit(out, limit), nil
}

// DeleteWorkout removes a workout by ID or ID prefix.
func (s *MemoryStore) DeleteWorkout(idOrPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := resolvePrefix(s.ids(), idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	kept := make([]*models.Workout, 0, len(s.workouts))
	for _, w := range s.workouts {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	s.workouts = kept
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) ids() []string {
	ids := make([]string, len(s.workouts))
	for i, w := range s.workouts {
		ids[i] = w.ID
	}
	return ids
}
