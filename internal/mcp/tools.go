// ABOUTME: MCP tool implementations for workouts, metrics, and the coach.
// ABOUTME: Logging goes through the draft editor so validation matches the CLI and TUI.
package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/harperreed/fit/internal/editor"
	"github.com/harperreed/fit/internal/metrics"
	"github.com/harperreed/fit/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_workout",
		Description: "Log a completed strength workout with its exercises and sets",
	}, s.handleLogWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recent workouts, newest first",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with all its exercises and sets",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout by ID or ID prefix",
	}, s.handleDeleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "dashboard",
		Description: "Get total workouts, total minutes, streak status, and recent activity",
	}, s.handleDashboard)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "progress",
		Description: "Get the volume trend, the last 7 days of training frequency, and total tons lifted",
	}, s.handleProgress)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ask_coach",
		Description: "Ask Faisal, the AI fitness coach, a question",
	}, s.handleAskCoach)
}

// Tool input/output types

type setInput struct {
	Reps      int     `json:"reps" jsonschema:"Number of repetitions"`
	Weight    float64 `json:"weight" jsonschema:"Weight in pounds (0 for bodyweight)"`
	Completed *bool   `json:"completed,omitempty" jsonschema:"Whether the set was completed, defaults to true"`
}

type exerciseInput struct {
	Name string     `json:"name" jsonschema:"Exercise name, e.g. Bench Press"`
	Sets []setInput `json:"sets,omitempty" jsonschema:"Sets in order; one default set of 10 reps if omitted"`
}

type logWorkoutInput struct {
	Name            string          `json:"name" jsonschema:"Workout name, e.g. Upper Body Power"`
	DurationMinutes *int            `json:"duration_minutes,omitempty" jsonschema:"Duration in minutes, defaults to 45"`
	Notes           string          `json:"notes,omitempty" jsonschema:"Workout notes"`
	Exercises       []exerciseInput `json:"exercises" jsonschema:"At least one exercise"`
}

type workoutOutput struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Volume  float64 `json:"volume"`
	Message string  `json:"message"`
}

type listWorkoutsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type workoutSummary struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Date            string  `json:"date"`
	DurationMinutes int     `json:"duration_minutes"`
	Exercises       int     `json:"exercises"`
	Sets            int     `json:"sets"`
	Volume          float64 `json:"volume"`
}

type listWorkoutsOutput struct {
	Workouts []workoutSummary `json:"workouts"`
	Message  string           `json:"message,omitempty"`
}

type getWorkoutInput struct {
	ID string `json:"id" jsonschema:"Workout ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type emptyInput struct{}

type askCoachInput struct {
	Question string `json:"question" jsonschema:"The question for the coach"`
}

type askCoachOutput struct {
	Reply string `json:"reply"`
}

// Tool handlers

func (s *Server) handleLogWorkout(ctx context.Context, req *mcp.CallToolRequest, input logWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	s.logMu.Lock()
	defer s.logMu.Unlock()

	if err := s.app.Navigate(models.ViewLog); err != nil {
		return nil, workoutOutput{}, err
	}
	ed := s.app.Editor()
	ed.Reset()
	fillDraft(ed, input)

	w, err := s.app.SaveDraft()
	if err != nil {
		s.app.CancelDraft()
		return nil, workoutOutput{}, fmt.Errorf("failed to log workout: %w", err)
	}

	return nil, workoutOutput{
		ID:      models.ShortID(w.ID),
		Name:    w.Name,
		Volume:  w.Volume(),
		Message: fmt.Sprintf("Logged %s with %d exercises (ID: %s)", w.Name, len(w.Exercises), models.ShortID(w.ID)),
	}, nil
}

// fillDraft replays a log_workout request as editor transitions.
func fillDraft(ed *editor.Editor, input logWorkoutInput) {
	ed.SetName(input.Name)
	if input.DurationMinutes != nil {
		ed.SetDurationMinutes(*input.DurationMinutes)
	}
	ed.SetNotes(input.Notes)

	for _, ex := range input.Exercises {
		entry := editor.ExerciseEntry{Name: ex.Name}
		for _, set := range ex.Sets {
			completed := set.Completed == nil || *set.Completed
			entry.Sets = append(entry.Sets, editor.SetEntry{
				Reps:      strconv.Itoa(set.Reps),
				Weight:    strconv.FormatFloat(set.Weight, 'f', -1, 64),
				Completed: strconv.FormatBool(completed),
			})
		}
		ed.AddExerciseEntry(entry)
	}
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}

	workouts := metrics.Recent(s.app.Workouts(), input.Limit)
	out := listWorkoutsOutput{Workouts: make([]workoutSummary, 0, len(workouts))}
	for _, w := range workouts {
		out.Workouts = append(out.Workouts, summarize(w))
	}
	if len(out.Workouts) == 0 {
		out.Message = "No workouts found."
	}
	return nil, out, nil
}

func summarize(w *models.Workout) workoutSummary {
	return workoutSummary{
		ID:              models.ShortID(w.ID),
		Name:            w.Name,
		Date:            w.Date.Format("2006-01-02 15:04"),
		DurationMinutes: w.DurationMinutes,
		Exercises:       len(w.Exercises),
		Sets:            w.SetCount(),
		Volume:          w.Volume(),
	}
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input getWorkoutInput) (*mcp.CallToolResult, any, error) {
	w, err := s.app.Repository().GetWorkout(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("workout not found: %s", input.ID)
	}
	return nil, w, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input getWorkoutInput) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := s.app.DeleteWorkout(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted workout: %s (%s)", w.Name, models.ShortID(w.ID)),
	}, nil
}

func (s *Server) handleDashboard(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	return nil, s.app.Dashboard(), nil
}

func (s *Server) handleProgress(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	return nil, s.app.Progress(), nil
}

func (s *Server) handleAskCoach(ctx context.Context, req *mcp.CallToolRequest, input askCoachInput) (*mcp.CallToolResult, askCoachOutput, error) {
	reply, ok, err := s.app.Ask(ctx, input.Question)
	if err != nil {
		return nil, askCoachOutput{}, fmt.Errorf("coach did not answer: %w", err)
	}
	if !ok {
		return nil, askCoachOutput{}, fmt.Errorf("question was empty or the coach is still answering")
	}
	return nil, askCoachOutput{Reply: reply.Text}, nil
}
