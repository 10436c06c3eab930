// ABOUTME: App routes between the dashboard, log, progress, and coach views.
// ABOUTME: It owns the workout list, the draft editor, and the coach conversation.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harperreed/fit/internal/coach"
	"github.com/harperreed/fit/internal/editor"
	"github.com/harperreed/fit/internal/metrics"
	"github.com/harperreed/fit/internal/models"
	"github.com/harperreed/fit/internal/storage"
	"github.com/sirupsen/logrus"
)

// EventKind names what changed in the app.
type EventKind string

const (
	// EventViewChanged fires after the current view changes.
	EventViewChanged EventKind = "view_changed"
	// EventWorkoutSaved fires after a draft is saved into the workout list.
	EventWorkoutSaved EventKind = "workout_saved"
	// EventConversationChanged fires when a message is appended or the
	// coach starts or stops waiting for a reply.
	EventConversationChanged EventKind = "conversation_changed"
)

// Event is delivered to subscribers.
type Event struct {
	Kind    EventKind
	View    models.View
	Workout *models.Workout
}

// App is the view router. It is safe for concurrent use.
type App struct {
	mu        sync.Mutex
	view      models.View
	workouts  []*models.Workout
	listeners map[int]func(Event)
	nextID    int

	repo         storage.Repository
	editor       *editor.Editor
	conversation *coach.Conversation
	unsubscribe  func()

	advisor coach.Advisor
	ids     models.IDGenerator
	clock   func() time.Time
	log     logrus.FieldLogger
}

// Option configures an App.
type Option func(*App)

// WithRepository sets the persistence backend. Defaults to the demo memory store.
func WithRepository(r storage.Repository) Option {
	return func(a *App) { a.repo = r }
}

// WithAdvisor sets the coach advisor. Defaults to an unavailable coach.
func WithAdvisor(adv coach.Advisor) Option {
	return func(a *App) { a.advisor = adv }
}

// WithIDGenerator sets the id source shared by the editor and conversation.
func WithIDGenerator(g models.IDGenerator) Option {
	return func(a *App) { a.ids = g }
}

// WithClock sets the time source for saves, messages, and metrics.
func WithClock(clock func() time.Time) Option {
	return func(a *App) { a.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *App) { a.log = l }
}

// New creates an App on the dashboard view, loading workouts from the repository.
func New(opts ...Option) (*App, error) {
	a := &App{
		view:      models.ViewDashboard,
		listeners: make(map[int]func(Event)),
		ids:       models.UUIDGenerator{},
		clock:     time.Now,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.repo == nil {
		a.repo = storage.NewDemoStore(a.clock())
	}
	if a.advisor == nil {
		a.advisor = coach.Unavailable(coach.ErrMissingAPIKey, coach.WithAdvisorLogger(a.log))
	}

	workouts, err := a.repo.ListWorkouts(0)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}
	a.workouts = workouts
	a.log.WithField("workouts", len(workouts)).Debug("app ready")

	a.editor = editor.New(
		editor.WithIDGenerator(a.ids),
		editor.WithClock(a.clock),
		editor.WithLogger(a.log),
		editor.OnSave(a.recordWorkout),
	)
	a.conversation = coach.NewConversation(a.advisor,
		coach.WithIDGenerator(a.ids),
		coach.WithClock(a.clock),
		coach.WithLogger(a.log),
	)
	a.unsubscribe = a.conversation.Subscribe(func() {
		a.emit(Event{Kind: EventConversationChanged, View: a.View()})
	})
	return a, nil
}

// View returns the current view.
func (a *App) View() models.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Navigate switches to view. Leaving or entering the log view discards
// any unsaved draft. Navigating to the current view does nothing.
func (a *App) Navigate(view models.View) error {
	if !models.IsValidView(string(view)) {
		return fmt.Errorf("unknown view: %q", view)
	}

	a.mu.Lock()
	prev := a.view
	if prev == view {
		a.mu.Unlock()
		return nil
	}
	a.view = view
	a.mu.Unlock()

	if prev == models.ViewLog || view == models.ViewLog {
		a.editor.Reset()
	}

	a.log.WithFields(logrus.Fields{"from": prev, "to": view}).Debug("view changed")
	a.emit(Event{Kind: EventViewChanged, View: view})
	return nil
}

// Editor returns the draft editor.
func (a *App) Editor() *editor.Editor {
	return a.editor
}

// Conversation returns the coach conversation.
func (a *App) Conversation() *coach.Conversation {
	return a.conversation
}

// Repository returns the persistence backend.
func (a *App) Repository() storage.Repository {
	return a.repo
}

// Workouts returns a copy of the workout list, newest first.
func (a *App) Workouts() []*models.Workout {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*models.Workout, len(a.workouts))
	copy(out, a.workouts)
	return out
}

// DeleteWorkout removes a saved workout by id or unique id prefix from the
// repository and the list.
func (a *App) DeleteWorkout(idOrPrefix string) (*models.Workout, error) {
	w, err := a.repo.GetWorkout(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if err := a.repo.DeleteWorkout(w.ID); err != nil {
		return nil, err
	}

	a.mu.Lock()
	kept := make([]*models.Workout, 0, len(a.workouts))
	for _, existing := range a.workouts {
		if existing.ID != w.ID {
			kept = append(kept, existing)
		}
	}
	a.workouts = kept
	a.mu.Unlock()
	return w, nil
}

// SaveDraft saves the editor's draft. On success the workout is at the
// head of the list and the app is back on the dashboard. Validation
// failures leave the draft and view untouched.
func (a *App) SaveDraft() (*models.Workout, error) {
	w, err := a.editor.Save()
	if err != nil {
		return nil, err
	}
	if err := a.Navigate(models.ViewDashboard); err != nil {
		return nil, err
	}
	return w, nil
}

// CancelDraft discards the draft and returns to the dashboard.
func (a *App) CancelDraft() {
	a.editor.Cancel()
	_ = a.Navigate(models.ViewDashboard)
}

// Dashboard computes the dashboard figures at the current time.
func (a *App) Dashboard() metrics.Dashboard {
	return metrics.Summarize(a.Workouts(), a.clock())
}

// Progress computes the progress figures at the current time.
func (a *App) Progress() metrics.ProgressReport {
	return metrics.Progress(a.Workouts(), a.clock())
}

// Ask sends a question to the coach and waits for the reply.
func (a *App) Ask(ctx context.Context, question string) (models.ChatMessage, bool, error) {
	return a.conversation.Ask(ctx, question)
}

// Subscribe registers fn for app events. The returned func removes it.
func (a *App) Subscribe(fn func(Event)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}

// Close waits for any outstanding coach reply and detaches from the
// conversation. The repository is left open for its owner to close.
func (a *App) Close() {
	a.conversation.WaitIdle()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// recordWorkout is the editor's save collaborator. A persistence failure
// is logged and the workout stays in the list for this session.
func (a *App) recordWorkout(w *models.Workout) {
	a.mu.Lock()
	next := make([]*models.Workout, 0, len(a.workouts)+1)
	next = append(next, w)
	a.workouts = append(next, a.workouts...)
	view := a.view
	a.mu.Unlock()

	if err := a.repo.SaveWorkout(w); err != nil {
		a.log.WithError(err).WithField("workout_id", w.ID).Warn("persist workout failed")
	}

	a.emit(Event{Kind: EventWorkoutSaved, View: view, Workout: w})
}

func (a *App) emit(ev Event) {
	a.mu.Lock()
	fns := make([]func(Event), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
