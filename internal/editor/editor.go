// ABOUTME: Draft workout editor driving the log-workout form.
// ABOUTME: Nested add/update/remove of exercises and sets, then save or cancel.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/fit/internal/models"
	"github.com/sirupsen/logrus"
)

// SetField names an editable field of a set.
type SetField string

const (
	FieldReps      SetField = "reps"
	FieldWeight    SetField = "weight"
	FieldCompleted SetField = "completed"
)

// ValidationError is returned by Save when the draft cannot be saved.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cannot save workout: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a draft validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Draft is the unsaved workout under construction.
type Draft struct {
	Name            string
	DurationMinutes int
	Notes           string
	Exercises       []models.Exercise
}

func newDraft() Draft {
	return Draft{DurationMinutes: models.DefaultDurationMinutes}
}

func (d Draft) clone() Draft {
	out := d
	if d.Exercises != nil {
		out.Exercises = make([]models.Exercise, len(d.Exercises))
		for i, e := range d.Exercises {
			out.Exercises[i] = e.Clone()
		}
	}
	return out
}

// Editor owns a single Draft. It is safe for concurrent use.
type Editor struct {
	mu    sync.Mutex
	draft Draft

	ids      models.IDGenerator
	clock    func() time.Time
	onSave   func(*models.Workout)
	onCancel func()
	log      logrus.FieldLogger
}

// Option configures an Editor.
type Option func(*Editor)

// WithIDGenerator sets the id source for new sets, exercises, and workouts.
func WithIDGenerator(g models.IDGenerator) Option {
	return func(e *Editor) { e.ids = g }
}

// WithClock sets the time source used to date saved workouts.
func WithClock(clock func() time.Time) Option {
	return func(e *Editor) { e.clock = clock }
}

// OnSave registers the collaborator that receives each saved workout.
func OnSave(fn func(*models.Workout)) Option {
	return func(e *Editor) { e.onSave = fn }
}

// OnCancel registers a callback run when the draft is discarded.
func OnCancel(fn func()) Option {
	return func(e *Editor) { e.onCancel = fn }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Editor) { e.log = l }
}

// New creates an Editor with an empty draft.
func New(opts ...Option) *Editor {
	e := &Editor{
		draft: newDraft(),
		ids:   models.UUIDGenerator{},
		clock: time.Now,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Draft returns a deep copy of the current draft.
func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.clone()
}

// SetName sets the workout name. Blank names are only rejected at save.
func (e *Editor) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Name = name
}

// SetDuration parses minutes from user input; bad input becomes 0.
func (e *Editor) SetDuration(input string) {
	e.SetDurationMinutes(models.ParseMinutes(input))
}

// SetDurationMinutes sets the duration, clamping negatives to 0.
func (e *Editor) SetDurationMinutes(minutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.DurationMinutes = max(minutes, 0)
}

// SetNotes sets optional free-text notes.
func (e *Editor) SetNotes(notes string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Notes = notes
}

// AddExercise appends an unnamed exercise with one default set and
// returns its id.
func (e *Editor) AddExercise() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ex := models.Exercise{
		ID:   e.ids.Next(),
		Sets: []models.Set{models.NewSet(e.ids.Next())},
	}
	e.draft.Exercises = append(cloneExercises(e.draft.Exercises), ex)
	return ex.ID
}

// SetEntry is one set as typed by the user. Fields go through the same
// coercion as UpdateSetField.
type SetEntry struct {
	Reps      string
	Weight    string
	Completed string
}

// ExerciseEntry is a named exercise with the sets to record for it.
type ExerciseEntry struct {
	Name string
	Sets []SetEntry
}

// AddExerciseEntry appends a named exercise holding the given sets and
// returns its id. An entry without sets keeps the default set.
func (e *Editor) AddExerciseEntry(in ExerciseEntry) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ex := models.Exercise{ID: e.ids.Next(), Name: in.Name}
	if len(in.Sets) == 0 {
		ex.Sets = []models.Set{models.NewSet(e.ids.Next())}
	}
	for _, entry := range in.Sets {
		s := models.NewSet(e.ids.Next())
		s.Reps = models.ParseReps(entry.Reps)
		s.Weight = models.ParseWeight(entry.Weight)
		s.Completed = models.ParseCompleted(entry.Completed)
		ex.Sets = append(ex.Sets, s)
	}
	e.draft.Exercises = append(cloneExercises(e.draft.Exercises), ex)
	return ex.ID
}

// RenameExercise replaces an exercise name. Empty names are allowed.
func (e *Editor) RenameExercise(exerciseID, name string) bool {
	return e.updateExercise(exerciseID, func(ex *models.Exercise) bool {
		ex.Name = name
		return true
	})
}

// RemoveExercise deletes an exercise and its sets. Unknown ids are ignored.
func (e *Editor) RemoveExercise(exerciseID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := make([]models.Exercise, 0, len(e.draft.Exercises))
	removed := false
	for _, ex := range e.draft.Exercises {
		if ex.ID == exerciseID {
			removed = true
			continue
		}
		kept = append(kept, ex)
	}
	if removed {
		e.draft.Exercises = kept
	}
	return removed
}

// AddSet appends a set to an exercise. The new set copies the previous
// set's reps, weight, and completion; an empty exercise gets a default set.
func (e *Editor) AddSet(exerciseID string) (string, bool) {
	var setID string
	ok := e.updateExercise(exerciseID, func(ex *models.Exercise) bool {
		setID = e.ids.Next()
		next := models.NewSet(setID)
		if n := len(ex.Sets); n > 0 {
			next = ex.Sets[n-1]
			next.ID = setID
		}
		ex.Sets = append(ex.Sets, next)
		return true
	})
	if !ok {
		return "", false
	}
	return setID, true
}

// UpdateSetField sets one field of a set from user input. Numeric
// fields coerce bad input to 0; completed coerces bad input to false.
func (e *Editor) UpdateSetField(exerciseID, setID string, field SetField, value string) bool {
	switch field {
	case FieldReps, FieldWeight, FieldCompleted:
	default:
		e.log.WithField("field", field).Debug("ignoring unknown set field")
		return false
	}

	return e.updateExercise(exerciseID, func(ex *models.Exercise) bool {
		for i := range ex.Sets {
			if ex.Sets[i].ID != setID {
				continue
			}
			switch field {
			case FieldReps:
				ex.Sets[i].Reps = models.ParseReps(value)
			case FieldWeight:
				ex.Sets[i].Weight = models.ParseWeight(value)
			case FieldCompleted:
				ex.Sets[i].Completed = models.ParseCompleted(value)
			}
			return true
		}
		return false
	})
}

// RemoveSet deletes a set. An exercise may be left with no sets.
func (e *Editor) RemoveSet(exerciseID, setID string) bool {
	return e.updateExercise(exerciseID, func(ex *models.Exercise) bool {
		kept := make([]models.Set, 0, len(ex.Sets))
		removed := false
		for _, s := range ex.Sets {
			if s.ID == setID {
				removed = true
				continue
			}
			kept = append(kept, s)
		}
		ex.Sets = kept
		return removed
	})
}

// Save validates the draft and, on success, freezes it into a Workout,
// hands it to the OnSave collaborator, and resets the draft. A failed
// validation leaves the draft untouched.
func (e *Editor) Save() (*models.Workout, error) {
	e.mu.Lock()
	w := &models.Workout{
		Name:            e.draft.Name,
		DurationMinutes: e.draft.DurationMinutes,
		Exercises:       e.draft.clone().Exercises,
	}
	if err := w.Validate(); err != nil {
		e.mu.Unlock()
		return nil, &ValidationError{Err: err}
	}

	w.ID = e.ids.Next()
	w.Date = e.clock().UTC()
	if notes := strings.TrimSpace(e.draft.Notes); notes != "" {
		w.WithNotes(notes)
	}
	e.draft = newDraft()
	onSave := e.onSave
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{
		"workout_id": w.ID,
		"exercises":  len(w.Exercises),
	}).Debug("workout saved")

	if onSave != nil {
		onSave(w.Clone())
	}
	return w, nil
}

// Cancel discards the draft without validation.
func (e *Editor) Cancel() {
	e.mu.Lock()
	e.draft = newDraft()
	onCancel := e.onCancel
	e.mu.Unlock()

	if onCancel != nil {
		onCancel()
	}
}

// Reset discards the draft without notifying OnCancel.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = newDraft()
}

// updateExercise applies fn to a copy of the matching exercise and swaps
// the exercise list only when fn reports a change.
func (e *Editor) updateExercise(exerciseID string, fn func(*models.Exercise) bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, ex := range e.draft.Exercises {
		if ex.ID != exerciseID {
			continue
		}
		updated := ex.Clone()
		if !fn(&updated) {
			return false
		}
		next := cloneExercises(e.draft.Exercises)
		next[i] = updated
		e.draft.Exercises = next
		return true
	}
	return false
}

func cloneExercises(in []models.Exercise) []models.Exercise {
	out := make([]models.Exercise, len(in))
	copy(out, in)
	return out
}
