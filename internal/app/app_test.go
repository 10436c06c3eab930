// ABOUTME: Tests for the view router.
// ABOUTME: Covers navigation, draft lifecycle, persistence, metrics, and events.
package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/fit/internal/coach"
	"github.com/harperreed/fit/internal/editor"
	"github.com/harperreed/fit/internal/models"
	"github.com/harperreed/fit/internal/storage"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	logger, _ := test.NewNullLogger()
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(models.NewSequenceGenerator("id")),
		WithLogger(logger),
	}
	a, err := New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func fillDraft(e *editor.Editor, name string) {
	e.SetName(name)
	exID := e.AddExercise()
	e.RenameExercise(exID, "Deadlift")
	setID := e.Draft().Exercises[0].Sets[0].ID
	e.UpdateSetField(exID, setID, editor.FieldWeight, "225")
	e.UpdateSetField(exID, setID, editor.FieldReps, "5")
}

func TestNewSeedsDemoWorkouts(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, models.ViewDashboard, a.View())
	ws := a.Workouts()
	require.Len(t, ws, 2)
	assert.Equal(t, "w-1", ws[0].ID)

	d := a.Dashboard()
	assert.Equal(t, 2, d.TotalWorkouts)
	assert.Equal(t, 105, d.TotalMinutes)
	assert.True(t, d.StreakActive)
}

func TestNewUsesRepository(t *testing.T) {
	a := newTestApp(t, WithRepository(storage.NewMemoryStore()))
	assert.Empty(t, a.Workouts())
	assert.False(t, a.Dashboard().StreakActive)
}

func TestNewRepositoryError(t *testing.T) {
	_, err := New(WithRepository(&failingRepo{listErr: errors.New("disk gone")}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load workouts")
}

func TestNavigate(t *testing.T) {
	a := newTestApp(t)

	for _, v := range models.AllViews {
		require.NoError(t, a.Navigate(v))
		assert.Equal(t, v, a.View())
	}
	assert.Error(t, a.Navigate(models.View("settings")))
	assert.Equal(t, models.ViewCoach, a.View())
}

func TestNavigateAwayDiscardsDraft(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Navigate(models.ViewLog))
	fillDraft(a.Editor(), "Pull Day")

	require.NoError(t, a.Navigate(models.ViewProgress))
	d := a.Editor().Draft()
	assert.Empty(t, d.Name)
	assert.Empty(t, d.Exercises)
	assert.Equal(t, models.DefaultDurationMinutes, d.DurationMinutes)
	assert.Len(t, a.Workouts(), 2, "no autosave")
}

func TestNavigateKeepsConversation(t *testing.T) {
	a := newTestApp(t, WithAdvisor(coach.NewAdvisor(coach.GeneratorFunc(
		func(context.Context, string, []models.Turn) (string, error) { return "Squat more.", nil },
	))))
	require.NoError(t, a.Navigate(models.ViewCoach))

	_, ok, err := a.Ask(context.Background(), "what now?")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, a.Navigate(models.ViewDashboard))
	require.NoError(t, a.Navigate(models.ViewCoach))
	msgs := a.Conversation().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Squat more.", msgs[2].Text)
}

func TestSaveDraft(t *testing.T) {
	repo := storage.NewMemoryStore()
	a := newTestApp(t, WithRepository(repo))
	require.NoError(t, a.Navigate(models.ViewLog))
	fillDraft(a.Editor(), "Pull Day")

	w, err := a.SaveDraft()
	require.NoError(t, err)
	assert.Equal(t, "Pull Day", w.Name)
	assert.Equal(t, testNow, w.Date)
	assert.Equal(t, 1125.0, w.Volume())
	assert.Equal(t, models.ViewDashboard, a.View())

	ws := a.Workouts()
	require.Len(t, ws, 1)
	assert.Equal(t, w.ID, ws[0].ID)

	stored, err := repo.GetWorkout(w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pull Day", stored.Name)

	assert.Empty(t, a.Editor().Draft().Exercises)
}

func TestSaveDraftPrependsNewest(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Navigate(models.ViewLog))
	fillDraft(a.Editor(), "Today")

	w, err := a.SaveDraft()
	require.NoError(t, err)

	ws := a.Workouts()
	require.Len(t, ws, 3)
	assert.Equal(t, w.ID, ws[0].ID)
	assert.Equal(t, "w-1", ws[1].ID)

	d := a.Dashboard()
	require.NotNil(t, d.DaysSinceLast)
	assert.Equal(t, 0, *d.DaysSinceLast)
}

func TestSaveDraftValidation(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Navigate(models.ViewLog))
	a.Editor().SetName("No Exercises")

	_, err := a.SaveDraft()
	require.Error(t, err)
	assert.True(t, editor.IsValidation(err))
	assert.ErrorIs(t, err, models.ErrNoExercises)
	assert.Equal(t, models.ViewLog, a.View())
	assert.Equal(t, "No Exercises", a.Editor().Draft().Name)
	assert.Len(t, a.Workouts(), 2)
}

func TestSaveDraftPersistenceFailureKeepsWorkout(t *testing.T) {
	logger, hook := test.NewNullLogger()
	a := newTestApp(t,
		WithRepository(&failingRepo{saveErr: errors.New("read-only")}),
		WithLogger(logger),
	)
	require.NoError(t, a.Navigate(models.ViewLog))
	fillDraft(a.Editor(), "Unsaved")

	w, err := a.SaveDraft()
	require.NoError(t, err)
	require.Len(t, a.Workouts(), 1)
	assert.Equal(t, w.ID, a.Workouts()[0].ID)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "persist workout failed", hook.LastEntry().Message)
}

func TestCancelDraft(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Navigate(models.ViewLog))
	fillDraft(a.Editor(), "Pull Day")

	a.CancelDraft()
	assert.Equal(t, models.ViewDashboard, a.View())
	assert.Empty(t, a.Editor().Draft().Name)
	assert.Len(t, a.Workouts(), 2)
}

func TestProgress(t *testing.T) {
	a := newTestApp(t)
	p := a.Progress()

	require.Len(t, p.Volume, 2)
	assert.Equal(t, "Leg Day", p.Volume[0].Name)
	assert.Len(t, p.WeeklyFrequency, 7)
	assert.Equal(t, 4.5, p.LiftedTons)
	assert.Equal(t, 3, p.CarEquivalent)
}

func TestWorkoutsReturnsCopy(t *testing.T) {
	a := newTestApp(t)
	ws := a.Workouts()
	ws[0] = nil
	assert.NotNil(t, a.Workouts()[0])
}

func TestSubscribeEvents(t *testing.T) {
	a := newTestApp(t, WithRepository(storage.NewMemoryStore()))

	var mu sync.Mutex
	var kinds []EventKind
	unsubscribe := a.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, ev.Kind)
	})

	require.NoError(t, a.Navigate(models.ViewLog))
	fillDraft(a.Editor(), "Evented")
	_, err := a.SaveDraft()
	require.NoError(t, err)

	_, _, err = a.Ask(context.Background(), "hi")
	require.NoError(t, err)
	a.Conversation().WaitIdle()

	mu.Lock()
	got := append([]EventKind(nil), kinds...)
	mu.Unlock()

	require.GreaterOrEqual(t, len(got), 4)
	assert.Equal(t, EventViewChanged, got[0])
	assert.Equal(t, EventWorkoutSaved, got[1])
	assert.Equal(t, EventViewChanged, got[2])
	assert.Contains(t, got[3:], EventConversationChanged)

	unsubscribe()
	require.NoError(t, a.Navigate(models.ViewProgress))
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, kinds, len(got))
}

func TestDefaultCoachIsUnavailable(t *testing.T) {
	a := newTestApp(t)
	reply, ok, err := a.Ask(context.Background(), "plan my week")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, coach.FallbackReply, reply.Text)
}

// failingRepo is a Repository whose calls fail on demand.
type failingRepo struct {
	storage.MemoryStore
	listErr error
	saveErr error
}

func (f *failingRepo) ListWorkouts(limit int) ([]*models.Workout, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MemoryStore.ListWorkouts(limit)
}

func (f *failingRepo) SaveWorkout(w *models.Workout) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStore.SaveWorkout(w)
}

func TestDeleteWorkout(t *testing.T) {
	a := newTestApp(t)

	w, err := a.DeleteWorkout("w-2")
	require.NoError(t, err)
	assert.Equal(t, "Leg Day", w.Name)

	ws := a.Workouts()
	require.Len(t, ws, 1)
	assert.Equal(t, "w-1", ws[0].ID)

	_, err = a.Repository().GetWorkout("w-2")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = a.DeleteWorkout("nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
