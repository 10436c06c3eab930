// ABOUTME: CLI command for logging a workout from flags.
// ABOUTME: Drives the draft editor exactly as the interactive form does.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fit/internal/editor"
	"github.com/harperreed/fit/internal/models"
	"github.com/spf13/cobra"
)

var (
	logName      string
	logDuration  string
	logNotes     string
	logExercises []string
)

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"add"},
	Short:   "Log a workout",
	Long: `Log a workout session.

Each --exercise flag adds one exercise. Sets are written REPSxWEIGHT and
separated by commas. Leave out the weight for bodyweight sets, and add
"(skipped)" to record a set you did not complete. An exercise without
sets gets one default set of 10 reps.

EXAMPLES:

  fit log --name "Upper Body" -e "Bench Press:10x135,8x155,5x175" -e "Pull Ups:12,10"
  fit log --name "Leg Day" --duration 60 -e "Squat:10x185,10x185,10x185"
  fit log --name "Recovery" --notes "easy day" -e "Push Ups"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := make([]exerciseInput, 0, len(logExercises))
		for _, raw := range logExercises {
			input, err := parseExercise(raw)
			if err != nil {
				return err
			}
			inputs = append(inputs, input)
		}

		if err := fitApp.Navigate(models.ViewLog); err != nil {
			return err
		}
		fillDraft(fitApp.Editor(), logName, logDuration, logNotes, inputs)

		w, err := fitApp.SaveDraft()
		if err != nil {
			fitApp.CancelDraft()
			return err
		}

		if _, err := repo.GetWorkout(w.ID); err != nil {
			return fmt.Errorf("workout was not persisted: %w", err)
		}

		color.Green("✓ Logged %s", w.Name)
		fmt.Printf("  ID: %s\n", models.ShortID(w.ID))
		fmt.Printf("  Exercises: %d, sets: %d\n", len(w.Exercises), w.SetCount())
		fmt.Printf("  Volume: %s lbs\n", formatWeight(w.Volume()))
		return nil
	},
}

// fillDraft replays the flag values as editor transitions.
func fillDraft(ed *editor.Editor, name, duration, notes string, inputs []exerciseInput) {
	ed.SetName(name)
	if duration != "" {
		ed.SetDuration(duration)
	}
	ed.SetNotes(notes)
	for _, input := range inputs {
		ed.AddExerciseEntry(input)
	}
}

func init() {
	logCmd.Flags().StringVar(&logName, "name", "", "workout name")
	logCmd.Flags().StringVarP(&logDuration, "duration", "d", "", "duration in minutes (default 45)")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "workout notes")
	logCmd.Flags().StringArrayVarP(&logExercises, "exercise", "e", nil, `exercise as "Name:REPSxWEIGHT,..." (repeatable)`)
	rootCmd.AddCommand(logCmd)
}
