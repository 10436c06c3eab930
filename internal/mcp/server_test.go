// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers over a seeded app.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/fit/internal/app"
	"github.com/harperreed/fit/internal/coach"
	"github.com/harperreed/fit/internal/metrics"
	"github.com/harperreed/fit/internal/models"
	"github.com/harperreed/fit/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus/hooks/test"
)

var testNow = time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)

// setupTestServer creates a server over an app seeded with the demo workouts.
func setupTestServer(t *testing.T, repo storage.Repository) *Server {
	t.Helper()

	logger, _ := test.NewNullLogger()
	opts := []app.Option{
		app.WithClock(func() time.Time { return testNow }),
		app.WithIDGenerator(models.NewSequenceGenerator("id")),
		app.WithLogger(logger),
		app.WithAdvisor(coach.NewAdvisor(coach.GeneratorFunc(
			func(_ context.Context, query string, _ []models.Turn) (string, error) {
				return "Coach says: " + query, nil
			},
		))),
	}
	if repo != nil {
		opts = append(opts, app.WithRepository(repo))
	}
	a, err := app.New(opts...)
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	t.Cleanup(a.Close)

	server, err := NewServer(a)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "fit.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestNewServer(t *testing.T) {
	server := setupTestServer(t, nil)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.app == nil {
		t.Error("Expected non-nil app")
	}
}

func TestHandleLogWorkout(t *testing.T) {
	db := setupTestDB(t)
	server := setupTestServer(t, db)
	ctx := context.Background()

	input := logWorkoutInput{
		Name:            "Push Day",
		DurationMinutes: intPtr(50),
		Notes:           "  new bench PR  ",
		Exercises: []exerciseInput{
			{Name: "Bench Press", Sets: []setInput{
				{Reps: 10, Weight: 135},
				{Reps: 8, Weight: 155},
				{Reps: 5, Weight: 175, Completed: boolPtr(false)},
			}},
			{Name: "Dips"},
		},
	}

	_, out, err := server.handleLogWorkout(ctx, &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("handleLogWorkout failed: %v", err)
	}
	if out.Volume != 3465 {
		t.Errorf("Volume = %v, want 3465", out.Volume)
	}
	if !strings.Contains(out.Message, "Push Day") {
		t.Errorf("Message = %q", out.Message)
	}

	saved, err := db.GetWorkout(out.ID)
	if err != nil {
		t.Fatalf("workout not persisted: %v", err)
	}
	if saved.DurationMinutes != 50 {
		t.Errorf("DurationMinutes = %d, want 50", saved.DurationMinutes)
	}
	if saved.Notes == nil || *saved.Notes != "new bench PR" {
		t.Errorf("Notes = %v", saved.Notes)
	}
	if len(saved.Exercises) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(saved.Exercises))
	}
	bench := saved.Exercises[0]
	if len(bench.Sets) != 3 || bench.Sets[2].Completed || !bench.Sets[0].Completed {
		t.Errorf("unexpected bench sets: %+v", bench.Sets)
	}
	dips := saved.Exercises[1]
	if len(dips.Sets) != 1 || dips.Sets[0].Reps != models.DefaultReps {
		t.Errorf("expected one default set for dips, got %+v", dips.Sets)
	}

	if server.app.View() != models.ViewDashboard {
		t.Errorf("View = %s, want dashboard", server.app.View())
	}
	if got := server.app.Workouts()[0].Name; got != "Push Day" {
		t.Errorf("newest workout = %q, want Push Day", got)
	}
}

func TestHandleLogWorkoutDefaultDuration(t *testing.T) {
	server := setupTestServer(t, storage.NewMemoryStore())

	_, out, err := server.handleLogWorkout(context.Background(), &mcp.CallToolRequest{}, logWorkoutInput{
		Name:      "Quick",
		Exercises: []exerciseInput{{Name: "Squat"}},
	})
	if err != nil {
		t.Fatalf("handleLogWorkout failed: %v", err)
	}
	w, err := server.app.Repository().GetWorkout(out.ID)
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if w.DurationMinutes != models.DefaultDurationMinutes {
		t.Errorf("DurationMinutes = %d, want %d", w.DurationMinutes, models.DefaultDurationMinutes)
	}
}

func TestHandleLogWorkoutValidation(t *testing.T) {
	server := setupTestServer(t, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     logWorkoutInput
		errSubstr string
	}{
		{
			name:      "missing name",
			input:     logWorkoutInput{Name: "  ", Exercises: []exerciseInput{{Name: "Squat"}}},
			errSubstr: "name is required",
		},
		{
			name:      "no exercises",
			input:     logWorkoutInput{Name: "Empty"},
			errSubstr: "at least one exercise",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := server.handleLogWorkout(ctx, &mcp.CallToolRequest{}, tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errSubstr)
			}
			if len(server.app.Workouts()) != 2 {
				t.Error("invalid workout should not be recorded")
			}
			if server.app.View() != models.ViewDashboard {
				t.Errorf("View = %s, want dashboard", server.app.View())
			}
		})
	}
}

func TestHandleListWorkouts(t *testing.T) {
	server := setupTestServer(t, nil)

	_, out, err := server.handleListWorkouts(context.Background(), &mcp.CallToolRequest{}, listWorkoutsInput{})
	if err != nil {
		t.Fatalf("handleListWorkouts failed: %v", err)
	}
	if len(out.Workouts) != 2 {
		t.Fatalf("expected 2 workouts, got %d", len(out.Workouts))
	}
	first := out.Workouts[0]
	if first.Name != "Upper Body Power" || first.Sets != 5 || first.Volume != 3465 {
		t.Errorf("unexpected first workout: %+v", first)
	}

	_, out, _ = server.handleListWorkouts(context.Background(), &mcp.CallToolRequest{}, listWorkoutsInput{Limit: 1})
	if len(out.Workouts) != 1 {
		t.Errorf("limit not applied: %d", len(out.Workouts))
	}
}

func TestHandleListWorkoutsEmpty(t *testing.T) {
	server := setupTestServer(t, storage.NewMemoryStore())

	_, out, err := server.handleListWorkouts(context.Background(), &mcp.CallToolRequest{}, listWorkoutsInput{})
	if err != nil {
		t.Fatalf("handleListWorkouts failed: %v", err)
	}
	if out.Message != "No workouts found." {
		t.Errorf("Message = %q", out.Message)
	}
}

func TestHandleGetWorkout(t *testing.T) {
	server := setupTestServer(t, nil)

	_, out, err := server.handleGetWorkout(context.Background(), &mcp.CallToolRequest{}, getWorkoutInput{ID: "w-2"})
	if err != nil {
		t.Fatalf("handleGetWorkout failed: %v", err)
	}
	w, ok := out.(*models.Workout)
	if !ok {
		t.Fatalf("expected *models.Workout, got %T", out)
	}
	if w.Name != "Leg Day" {
		t.Errorf("Name = %q", w.Name)
	}

	if _, _, err := server.handleGetWorkout(context.Background(), &mcp.CallToolRequest{}, getWorkoutInput{ID: "missing"}); err == nil {
		t.Error("expected error for unknown workout")
	}
}

func TestHandleDeleteWorkout(t *testing.T) {
	server := setupTestServer(t, nil)

	_, out, err := server.handleDeleteWorkout(context.Background(), &mcp.CallToolRequest{}, getWorkoutInput{ID: "w-1"})
	if err != nil {
		t.Fatalf("handleDeleteWorkout failed: %v", err)
	}
	if !strings.Contains(out.Message, "Upper Body Power") {
		t.Errorf("Message = %q", out.Message)
	}
	if len(server.app.Workouts()) != 1 {
		t.Error("workout still in the app list")
	}

	if _, _, err := server.handleDeleteWorkout(context.Background(), &mcp.CallToolRequest{}, getWorkoutInput{ID: "w-1"}); err == nil {
		t.Error("expected error deleting twice")
	}
}

func TestHandleDashboard(t *testing.T) {
	server := setupTestServer(t, nil)

	_, out, err := server.handleDashboard(context.Background(), &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("handleDashboard failed: %v", err)
	}
	d, ok := out.(metrics.Dashboard)
	if !ok {
		t.Fatalf("expected metrics.Dashboard, got %T", out)
	}
	if d.TotalWorkouts != 2 || d.TotalMinutes != 105 || !d.StreakActive {
		t.Errorf("unexpected dashboard: %+v", d)
	}
}

func TestHandleProgress(t *testing.T) {
	server := setupTestServer(t, nil)

	_, out, err := server.handleProgress(context.Background(), &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("handleProgress failed: %v", err)
	}
	p, ok := out.(metrics.ProgressReport)
	if !ok {
		t.Fatalf("expected metrics.ProgressReport, got %T", out)
	}
	if p.LiftedTons != 4.5 || p.CarEquivalent != 3 || len(p.WeeklyFrequency) != 7 {
		t.Errorf("unexpected progress: %+v", p)
	}
}

func TestHandleAskCoach(t *testing.T) {
	server := setupTestServer(t, nil)
	ctx := context.Background()

	_, out, err := server.handleAskCoach(ctx, &mcp.CallToolRequest{}, askCoachInput{Question: "How many sets?"})
	if err != nil {
		t.Fatalf("handleAskCoach failed: %v", err)
	}
	if out.Reply != "Coach says: How many sets?" {
		t.Errorf("Reply = %q", out.Reply)
	}
	if n := len(server.app.Conversation().Messages()); n != 3 {
		t.Errorf("expected welcome plus two messages, got %d", n)
	}

	if _, _, err := server.handleAskCoach(ctx, &mcp.CallToolRequest{}, askCoachInput{Question: "   "}); err == nil {
		t.Error("expected error for blank question")
	}
}

func TestResources(t *testing.T) {
	server := setupTestServer(t, nil)
	ctx := context.Background()

	tests := []struct {
		uri     string
		handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)
		want    string
	}{
		{recentWorkoutsURI, server.handleRecentResource, "Upper Body Power"},
		{dashboardURI, server.handleDashboardResource, `"totalWorkouts": 2`},
		{progressURI, server.handleProgressResource, `"liftedTons": 4.5`},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			result, err := tt.handler(ctx, &mcp.ReadResourceRequest{})
			if err != nil {
				t.Fatalf("resource handler failed: %v", err)
			}
			if len(result.Contents) != 1 {
				t.Fatalf("expected 1 content, got %d", len(result.Contents))
			}
			c := result.Contents[0]
			if c.URI != tt.uri {
				t.Errorf("URI = %s, want %s", c.URI, tt.uri)
			}
			if c.MIMEType != "application/json" {
				t.Errorf("MIMEType = %s, want application/json", c.MIMEType)
			}
			if !json.Valid([]byte(c.Text)) {
				t.Error("resource text is not valid JSON")
			}
			if !strings.Contains(c.Text, tt.want) {
				t.Errorf("resource text missing %q", tt.want)
			}
		})
	}
}

func TestRecentResourceEmpty(t *testing.T) {
	server := setupTestServer(t, storage.NewMemoryStore())

	result, err := server.handleRecentResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleRecentResource failed: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, `"count": 0`) {
		t.Errorf("expected zero count, got %s", result.Contents[0].Text)
	}
}
