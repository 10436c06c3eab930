// ABOUTME: Export and import functionality for workout data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fit/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export document version.
const ExportVersion = "1.0"

// ExportData represents the full export format for workout data.
type ExportData struct {
	Version    string            `json:"version" yaml:"version"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Tool       string            `json:"tool" yaml:"tool"`
	Workouts   []*models.Workout `json:"workouts" yaml:"workouts"`
}

// ImportSummary counts what an import wrote and skipped.
type ImportSummary struct {
	Imported int
	Skipped  int
}

// GetAllData retrieves all workouts for export.
func GetAllData(repo Repository) (*ExportData, error) {
	workouts, err := repo.ListWorkouts(0)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	if workouts == nil {
		workouts = []*models.Workout{}
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       "fit",
		Workouts:   workouts,
	}, nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := GetAllData(repo)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := GetAllData(repo)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string        `yaml:"version"`
		ExportedAt string        `yaml:"exported_at"`
		Tool       string        `yaml:"tool"`
		Workouts   []yamlWorkout `yaml:"workouts"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Workouts:   make([]yamlWorkout, 0, len(data.Workouts)),
	}

	for _, w := range data.Workouts {
		yw := yamlWorkout{
			ID:              models.ShortID(w.ID),
			Name:            w.Name,
			Date:            w.Date.UTC().Format(time.RFC3339),
			DurationMinutes: w.DurationMinutes,
			Volume:          w.Volume(),
		}
		if w.Notes != nil {
			yw.Notes = *w.Notes
		}
		for _, ex := range w.Exercises {
			ye := yamlExercise{Name: ex.Name}
			for _, s := range ex.Sets {
				ye.Sets = append(ye.Sets, formatSet(s))
			}
			yw.Exercises = append(yw.Exercises, ye)
		}
		yamlData.Workouts = append(yamlData.Workouts, yw)
	}

	return yaml.Marshal(yamlData)
}

type yamlWorkout struct {
	ID              string         `yaml:"id"`
	Name            string         `yaml:"name"`
	Date            string         `yaml:"date"`
	DurationMinutes int            `yaml:"duration_minutes"`
	Volume          float64        `yaml:"volume"`
	Notes           string         `yaml:"notes,omitempty"`
	Exercises       []yamlExercise `yaml:"exercises,omitempty"`
}

type yamlExercise struct {
	Name string   `yaml:"name"`
	Sets []string `yaml:"sets,omitempty"`
}

// formatSet renders a set as "10x135", marking skipped sets.
func formatSet(s models.Set) string {
	out := fmt.Sprintf("%dx%s", s.Reps, formatWeight(s.Weight))
	if !s.Completed {
		out += " (skipped)"
	}
	return out
}

func formatWeight(w float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", w), "0"), ".")
}

// ExportMarkdown exports workouts on or after since (nil for all) as Markdown.
func ExportMarkdown(repo Repository, since *time.Time) (string, error) {
	workouts, err := repo.ListWorkouts(0)
	if err != nil {
		return "", err
	}

	if since != nil {
		var filtered []*models.Workout
		for _, w := range workouts {
			if !w.Date.Before(*since) {
				filtered = append(filtered, w)
			}
		}
		workouts = filtered
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Workout Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(workouts) == 0 {
		sb.WriteString("No workouts logged.\n")
		return sb.String(), nil
	}

	sb.WriteString("## Workouts\n\n")
	sb.WriteString("| Date | Name | Duration | Exercises | Volume |\n")
	sb.WriteString("|------|------|----------|-----------|--------|\n")
	for _, w := range workouts {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d min | %d | %.0f lbs |\n",
			w.Date.Format("2006-01-02 15:04"),
			w.Name, w.DurationMinutes, len(w.Exercises), w.Volume()))
	}

	for _, w := range workouts {
		sb.WriteString(fmt.Sprintf("\n### %s (%s)\n\n", w.Name, w.Date.Format("2006-01-02")))
		if w.Notes != nil && *w.Notes != "" {
			sb.WriteString(fmt.Sprintf("%s\n\n", *w.Notes))
		}
		for _, ex := range w.Exercises {
			sets := make([]string, 0, len(ex.Sets))
			for _, s := range ex.Sets {
				sets = append(sets, formatSet(s))
			}
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", ex.Name, strings.Join(sets, ", ")))
		}
	}

	return sb.String(), nil
}

// ImportData writes every workout in data to repo. Workouts whose id
// already exists are skipped.
func ImportData(repo Repository, data *ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}
	for _, w := range data.Workouts {
		if w == nil {
			continue
		}
		if err := w.Validate(); err != nil {
			return summary, fmt.Errorf("import workout %s: %w", w.ID, err)
		}
		// GetWorkout also resolves prefixes, so only an exact id is a duplicate.
		if existing, err := repo.GetWorkout(w.ID); err == nil && existing.ID == w.ID {
			summary.Skipped++
			continue
		}
		if err := repo.SaveWorkout(w); err != nil {
			return summary, fmt.Errorf("import workout %s: %w", w.ID, err)
		}
		summary.Imported++
	}
	return summary, nil
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(repo Repository, data []byte) (*ImportSummary, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return ImportData(repo, &exportData)
}

// SeedDemo imports the demo workouts dated relative to now. Demo workouts
// already present are skipped.
func SeedDemo(repo Repository, now time.Time) (*ImportSummary, error) {
	return ImportData(repo, &ExportData{
		Version:    ExportVersion,
		ExportedAt: now.UTC(),
		Tool:       "fit",
		Workouts:   models.DemoWorkouts(now),
	})
}
