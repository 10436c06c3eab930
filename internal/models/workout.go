// ABOUTME: Workout, Exercise, and Set models for strength-training logs.
// ABOUTME: Workouts own their exercises, exercises own their ordered sets.
package models

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Default values for a freshly added set.
const (
	DefaultReps   = 10
	DefaultWeight = 0.0

	// DefaultDurationMinutes is the duration a new draft starts with.
	DefaultDurationMinutes = 45
)

var (
	// ErrMissingName is returned when a workout has a blank name.
	ErrMissingName = errors.New("workout name is required")
	// ErrNoExercises is returned when a workout has no exercises.
	ErrNoExercises = errors.New("workout needs at least one exercise")
)

// Set is one block of repetitions at a given weight.
type Set struct {
	ID        string  `json:"id" yaml:"id"`
	Reps      int     `json:"reps" yaml:"reps"`
	Weight    float64 `json:"weight" yaml:"weight"`
	Completed bool    `json:"completed" yaml:"completed"`
}

// NewSet creates a set with the default reps, weight, and completion.
func NewSet(id string) Set {
	return Set{ID: id, Reps: DefaultReps, Weight: DefaultWeight, Completed: true}
}

// Volume returns weight times reps, treating invalid values as 0.
func (s Set) Volume() float64 {
	return SafeNumber(s.Weight) * float64(max(s.Reps, 0))
}

// Exercise is a named movement made of ordered sets.
type Exercise struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Sets []Set  `json:"sets" yaml:"sets"`
}

// Volume sums the volume of every set in the exercise.
func (e Exercise) Volume() float64 {
	var total float64
	for _, s := range e.Sets {
		total += s.Volume()
	}
	return total
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	out := e
	if e.Sets != nil {
		out.Sets = make([]Set, len(e.Sets))
		copy(out.Sets, e.Sets)
	}
	return out
}

// Workout represents a saved training session.
type Workout struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Date            time.Time  `json:"date" yaml:"date"`
	DurationMinutes int        `json:"durationMinutes" yaml:"duration_minutes"`
	Exercises       []Exercise `json:"exercises" yaml:"exercises"`
	Notes           *string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewWorkout creates a Workout with the given id and name dated now.
func NewWorkout(id, name string) *Workout {
	return &Workout{
		ID:   id,
		Name: name,
		Date: time.Now().UTC(),
	}
}

// WithDuration sets the duration in minutes.
func (w *Workout) WithDuration(minutes int) *Workout {
	w.DurationMinutes = max(minutes, 0)
	return w
}

// WithNotes sets notes on the workout.
func (w *Workout) WithNotes(notes string) *Workout {
	w.Notes = &notes
	return w
}

// WithDate sets a custom workout date.
func (w *Workout) WithDate(t time.Time) *Workout {
	w.Date = t
	return w
}

// WithExercises appends exercises to the workout.
func (w *Workout) WithExercises(exercises ...Exercise) *Workout {
	w.Exercises = append(w.Exercises, exercises...)
	return w
}

// Validate reports whether the workout may cross the save boundary.
func (w *Workout) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrMissingName
	}
	if len(w.Exercises) == 0 {
		return ErrNoExercises
	}
	return nil
}

// Volume sums weight times reps across all exercises and sets.
func (w *Workout) Volume() float64 {
	if w == nil {
		return 0
	}
	var total float64
	for _, e := range w.Exercises {
		total += e.Volume()
	}
	return total
}

// SetCount returns the number of sets across all exercises.
func (w *Workout) SetCount() int {
	n := 0
	for _, e := range w.Exercises {
		n += len(e.Sets)
	}
	return n
}

// Clone returns a deep copy so callers never share exercise slices.
func (w *Workout) Clone() *Workout {
	if w == nil {
		return nil
	}
	out := *w
	if w.Exercises != nil {
		out.Exercises = make([]Exercise, len(w.Exercises))
		for i, e := range w.Exercises {
			out.Exercises[i] = e.Clone()
		}
	}
	if w.Notes != nil {
		n := *w.Notes
		out.Notes = &n
	}
	return &out
}

// SafeNumber maps NaN and infinities to 0 and clamps negatives to 0.
func SafeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
