// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Tests parseTime, parseExercise, padRight, and commands against SQLite.
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/harperreed/fit/internal/app"
	"github.com/harperreed/fit/internal/coach"
	"github.com/harperreed/fit/internal/config"
	"github.com/harperreed/fit/internal/editor"
	"github.com/harperreed/fit/internal/models"
	"github.com/harperreed/fit/internal/storage"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "date and time with space", input: "2025-01-31 08:30"},
		{name: "date and time with T", input: "2025-01-31T08:30"},
		{name: "date only", input: "2025-01-31"},
		{name: "RFC3339", input: "2025-01-31T08:30:00Z"},
		{name: "RFC3339 with offset", input: "2025-01-31T08:30:00+05:00"},
		{name: "invalid format", input: "31-01-2025", wantErr: true},
		{name: "invalid random string", input: "not a date", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSinceFilter(t *testing.T) {
	since, err := sinceFilter("")
	if err != nil || since != nil {
		t.Errorf("Expected nil filter for empty input, got %v, %v", since, err)
	}

	since, err = sinceFilter("2025-01-31")
	if err != nil {
		t.Fatalf("sinceFilter failed: %v", err)
	}
	if since.Day() != 31 {
		t.Errorf("Expected day 31, got %d", since.Day())
	}

	if _, err := sinceFilter("yesterday"); err == nil {
		t.Error("Expected error for invalid date")
	}
}

func TestParseExercise(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    exerciseInput
		wantErr bool
	}{
		{
			name:  "weighted sets",
			input: "Bench Press:10x135,8x155",
			want: exerciseInput{Name: "Bench Press", Sets: []setInput{
				{Reps: "10", Weight: "135", Completed: "true"},
				{Reps: "8", Weight: "155", Completed: "true"},
			}},
		},
		{
			name:  "bodyweight sets",
			input: "Pull Ups:12,10",
			want: exerciseInput{Name: "Pull Ups", Sets: []setInput{
				{Reps: "12", Weight: "0", Completed: "true"},
				{Reps: "10", Weight: "0", Completed: "true"},
			}},
		},
		{
			name:  "skipped set and spacing",
			input: " Squat : 10X185 , 8x205 (skipped)",
			want: exerciseInput{Name: "Squat", Sets: []setInput{
				{Reps: "10", Weight: "185", Completed: "true"},
				{Reps: "8", Weight: "205", Completed: "false"},
			}},
		},
		{
			name:  "name only",
			input: "Plank",
			want:  exerciseInput{Name: "Plank"},
		},
		{
			name:  "name with trailing colon",
			input: "Plank:",
			want:  exerciseInput{Name: "Plank"},
		},
		{name: "missing name", input: ":10x135", wantErr: true},
		{name: "empty set", input: "Bench:10x135,,8x155", wantErr: true},
		{name: "too many parts", input: "Bench:10x135x2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExercise(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseExercise(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Name != tt.want.Name {
				t.Errorf("Name = %q, want %q", got.Name, tt.want.Name)
			}
			if len(got.Sets) != len(tt.want.Sets) {
				t.Fatalf("got %d sets, want %d", len(got.Sets), len(tt.want.Sets))
			}
			for i := range got.Sets {
				if got.Sets[i] != tt.want.Sets[i] {
					t.Errorf("set %d = %+v, want %+v", i, got.Sets[i], tt.want.Sets[i])
				}
			}
		})
	}
}

func TestFillDraft(t *testing.T) {
	ed := editor.New(editor.WithIDGenerator(models.NewSequenceGenerator("id-")))
	inputs := []exerciseInput{
		{Name: "Bench Press", Sets: []setInput{
			{Reps: "10", Weight: "135", Completed: "true"},
			{Reps: "8", Weight: "abc", Completed: "false"},
		}},
		{Name: "Push Ups"},
	}

	fillDraft(ed, "Push", "not a number", "  ", inputs)

	d := ed.Draft()
	if d.Name != "Push" || d.DurationMinutes != 0 {
		t.Errorf("Unexpected draft header: %q, %d min", d.Name, d.DurationMinutes)
	}
	if len(d.Exercises) != 2 {
		t.Fatalf("Expected 2 exercises, got %d", len(d.Exercises))
	}

	bench := d.Exercises[0].Sets
	if len(bench) != 2 {
		t.Fatalf("Expected 2 bench sets, got %d", len(bench))
	}
	if bench[0].Reps != 10 || bench[0].Weight != 135 || !bench[0].Completed {
		t.Errorf("Unexpected first set: %+v", bench[0])
	}
	if bench[1].Reps != 8 || bench[1].Weight != 0 || bench[1].Completed {
		t.Errorf("Expected bad weight coerced to 0 on a skipped set, got %+v", bench[1])
	}

	pushUps := d.Exercises[1].Sets
	if len(pushUps) != 1 || pushUps[0].Reps != models.DefaultReps {
		t.Errorf("Expected one default set, got %+v", pushUps)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a long string", 10, "this is..."},
		{"Überkreuz-Kniebeuge", 10, "Überkre..."},
		{"Übungen", 7, "Übungen"},
		{"日本語のトレーニング", 6, "日本語..."},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tt.input, tt.maxLen, got)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
		{"Übung", 6, "Übung "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestFormatWeight(t *testing.T) {
	if got := formatWeight(135); got != "135" {
		t.Errorf("formatWeight(135) = %q", got)
	}
	if got := formatWeight(2.5); got != "2.5" {
		t.Errorf("formatWeight(2.5) = %q", got)
	}
}

func TestDaysAgo(t *testing.T) {
	if got := daysAgo(0); got != "today" {
		t.Errorf("daysAgo(0) = %q", got)
	}
	if got := daysAgo(1); got != "yesterday" {
		t.Errorf("daysAgo(1) = %q", got)
	}
	if got := daysAgo(5); got != "5 days ago" {
		t.Errorf("daysAgo(5) = %q", got)
	}
}

func TestSkipsStorage(t *testing.T) {
	if !skipsStorage(configSetCmd) {
		t.Error("config subcommands should skip storage")
	}
	if !skipsStorage(syncWipeCmd) {
		t.Error("sync wipe should skip storage")
	}
	if skipsStorage(syncStatusCmd) {
		t.Error("sync status needs storage")
	}
	if skipsStorage(logCmd) {
		t.Error("log needs storage")
	}
	if !hasAnnotation(uiCmd, ownsTerminal) || !hasAnnotation(mcpCmd, ownsTerminal) {
		t.Error("ui and mcp should keep logs off the terminal")
	}
	if hasAnnotation(dashboardCmd, ownsTerminal) {
		t.Error("dashboard logs to stderr")
	}
}

// setupTestCLI points config and data at temp dirs, selects the SQLite
// backend, and returns the database path.
func setupTestCLI(t *testing.T) string {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv(config.EnvGeminiAPIKey, "")
	t.Setenv(config.EnvAPIKey, "")

	c := &config.Config{Backend: config.BackendSQLite}
	if err := c.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	resetFlags()
	t.Cleanup(func() {
		_ = closeStorage()
		resetFlags()
	})

	return filepath.Join(dataHome, "fit", "fit.db")
}

func resetFlags() {
	logLevel = "warn"
	logFile = ""
	logJSON = false
	logName = ""
	logDuration = ""
	logNotes = ""
	logExercises = nil
	workoutsLimit = 20
	deleteForce = false
	exportOutput = ""
	exportSince = ""
	migrateFrom = config.BackendSQLite
	migrateTo = config.BackendCharm
	migrateDryRun = false
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(""))
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func openTestDB(t *testing.T, path string) *storage.DB {
	t.Helper()
	db, err := storage.Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLogCmdWithDB(t *testing.T) {
	dbPath := setupTestCLI(t)

	err := execute(t, "log",
		"--name", "Upper Body",
		"--duration", "50",
		"--notes", "felt strong",
		"-e", "Bench Press:10x135,8x155 (skipped)",
		"-e", "Pull Ups:12")
	if err != nil {
		t.Fatalf("log command failed: %v", err)
	}

	workouts, err := openTestDB(t, dbPath).ListWorkouts(0)
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(workouts) != 1 {
		t.Fatalf("Expected 1 workout, got %d", len(workouts))
	}

	w := workouts[0]
	if w.Name != "Upper Body" || w.DurationMinutes != 50 {
		t.Errorf("Unexpected workout: %s, %d min", w.Name, w.DurationMinutes)
	}
	if w.Notes == nil || *w.Notes != "felt strong" {
		t.Error("Notes not set correctly")
	}
	if len(w.Exercises) != 2 || w.SetCount() != 3 {
		t.Fatalf("Expected 2 exercises and 3 sets, got %d and %d", len(w.Exercises), w.SetCount())
	}
	if w.Exercises[0].Sets[1].Completed {
		t.Error("Expected skipped set to be incomplete")
	}
	if w.Volume() != 10*135+8*155 {
		t.Errorf("Expected volume 2590, got %v", w.Volume())
	}
}

func TestLogCmdDefaultDuration(t *testing.T) {
	dbPath := setupTestCLI(t)

	if err := execute(t, "log", "--name", "Quick", "-e", "Squat:5x225"); err != nil {
		t.Fatalf("log command failed: %v", err)
	}

	workouts, _ := openTestDB(t, dbPath).ListWorkouts(0)
	if len(workouts) != 1 || workouts[0].DurationMinutes != 45 {
		t.Errorf("Expected one 45 minute workout, got %+v", workouts)
	}
}

func TestLogCmdValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing name", args: []string{"log", "-e", "Squat:5x225"}},
		{name: "blank name", args: []string{"log", "--name", "   ", "-e", "Squat:5x225"}},
		{name: "no exercises", args: []string{"log", "--name", "Empty"}},
		{name: "malformed set", args: []string{"log", "--name", "Bad", "-e", "Squat:5x225x3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := setupTestCLI(t)

			if err := execute(t, tt.args...); err == nil {
				t.Fatal("Expected error")
			}
			_ = closeStorage()

			workouts, _ := openTestDB(t, dbPath).ListWorkouts(0)
			if len(workouts) != 0 {
				t.Errorf("Expected nothing saved, got %d workouts", len(workouts))
			}
		})
	}
}

func TestSeedListShowDelete(t *testing.T) {
	dbPath := setupTestCLI(t)

	if err := execute(t, "seed"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	for _, args := range [][]string{
		{"dashboard"},
		{"progress"},
		{"workouts", "list"},
		{"workouts", "show", "w-1"},
	} {
		if err := execute(t, args...); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
	}

	if err := execute(t, "workouts", "show", "missing"); err == nil {
		t.Error("Expected error for unknown workout")
	}
	_ = closeStorage()

	if err := execute(t, "workouts", "delete", "w-2", "--force"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	workouts, _ := openTestDB(t, dbPath).ListWorkouts(0)
	if len(workouts) != 1 || workouts[0].ID != "w-1" {
		t.Errorf("Expected only w-1 left, got %+v", workouts)
	}
}

func TestWorkoutsDeleteDeclined(t *testing.T) {
	dbPath := setupTestCLI(t)

	if err := execute(t, "seed"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rootCmd.SetIn(strings.NewReader("n\n"))
	if err := execute(t, "workouts", "delete", "w-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	workouts, _ := openTestDB(t, dbPath).ListWorkouts(0)
	if len(workouts) != 2 {
		t.Errorf("Expected both workouts kept, got %d", len(workouts))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	setupTestCLI(t)

	if err := execute(t, "seed"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "backup.json")
	if err := execute(t, "export", "json", "-o", out); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	for _, format := range []string{"yaml", "markdown"} {
		exportOutput = filepath.Join(t.TempDir(), "backup."+format)
		if err := execute(t, "export", format, "-o", exportOutput); err != nil {
			t.Fatalf("export %s failed: %v", format, err)
		}
	}
	exportOutput = ""

	if err := execute(t, "export", "csv"); err == nil {
		t.Error("Expected error for unknown format")
	}
	_ = closeStorage()

	freshData := t.TempDir()
	t.Setenv("XDG_DATA_HOME", freshData)
	if err := execute(t, "import", out); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	workouts, _ := openTestDB(t, filepath.Join(freshData, "fit", "fit.db")).ListWorkouts(0)
	if len(workouts) != 2 {
		t.Errorf("Expected 2 imported workouts, got %d", len(workouts))
	}
}

func TestCoachOneShotWithoutKey(t *testing.T) {
	setupTestCLI(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	if err := execute(t, "coach", "How", "do", "I", "squat?"); err != nil {
		t.Fatalf("coach failed: %v", err)
	}

	if !strings.Contains(out.String(), coach.FallbackReply) {
		t.Errorf("Expected fallback reply, got: %s", out.String())
	}
}

func TestChatLoop(t *testing.T) {
	a, err := app.New(app.WithAdvisor(coach.Unavailable(coach.ErrMissingAPIKey)))
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	defer a.Close()

	coachCmd.SetContext(context.Background())
	var out bytes.Buffer
	in := strings.NewReader("\nhello coach\nexit\nnever sent\n")
	if err := chatLoop(coachCmd, a, in, &out); err != nil {
		t.Fatalf("chatLoop failed: %v", err)
	}

	if !strings.Contains(out.String(), coach.WelcomeText) {
		t.Error("Expected welcome message")
	}
	if !strings.Contains(out.String(), coach.FallbackReply) {
		t.Error("Expected fallback reply")
	}

	msgs := a.Conversation().Messages()
	if len(msgs) != 3 {
		t.Fatalf("Expected welcome, question, and reply, got %d messages", len(msgs))
	}
	if msgs[1].Text != "hello coach" {
		t.Errorf("Expected question to be recorded, got %q", msgs[1].Text)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	setupTestCLI(t)

	if err := execute(t, "config", "set", "coach_model", "gemini-test"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if err := execute(t, "config", "set", "backend", "postgres"); err == nil {
		t.Error("Expected error for unknown backend")
	}
	if err := execute(t, "config", "set", "color", "blue"); err == nil {
		t.Error("Expected error for unknown key")
	}
	if err := execute(t, "config", "show"); err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	c, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.CoachModel != "gemini-test" || c.Backend != config.BackendSQLite {
		t.Errorf("Unexpected config: %+v", c)
	}
}

func TestMigrateMemoryToSQLite(t *testing.T) {
	dbPath := setupTestCLI(t)

	if err := execute(t, "migrate", "--from", "sqlite", "--to", "sqlite"); err == nil {
		t.Error("Expected error when source equals destination")
	}
	if err := execute(t, "migrate", "--from", "memory", "--to", "sqlite", "--dry-run"); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Error("Dry run should not create the destination database")
	}

	migrateDryRun = false
	if err := execute(t, "migrate", "--from", "memory", "--to", "sqlite"); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	workouts, _ := openTestDB(t, dbPath).ListWorkouts(0)
	if len(workouts) != 2 {
		t.Errorf("Expected 2 migrated workouts, got %d", len(workouts))
	}
}

func TestSyncStatusNeedsCharmBackend(t *testing.T) {
	setupTestCLI(t)

	if err := execute(t, "sync", "status"); err != nil {
		t.Errorf("sync status should report, not fail: %v", err)
	}
	if err := execute(t, "sync", "now"); err != nil {
		t.Errorf("sync now should report, not fail: %v", err)
	}
}

func TestLogFileFlag(t *testing.T) {
	setupTestCLI(t)

	path := filepath.Join(t.TempDir(), "fit.log")
	if err := execute(t, "dashboard", "--log-level", "debug", "--log-file", path); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected log file to be created: %v", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	setupTestCLI(t)

	if err := execute(t, "dashboard", "--log-level", "loud"); err == nil {
		t.Error("Expected error for invalid log level")
	}
}
