// ABOUTME: Shared formatting and parsing helpers for CLI commands.
// ABOUTME: Covers column padding, time parsing, and the exercise flag syntax.
package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harperreed/fit/internal/editor"
)

// setInput is one parsed set from an --exercise flag, kept as raw text so
// the editor applies its own coercion.
type setInput = editor.SetEntry

// exerciseInput is a parsed --exercise flag.
type exerciseInput = editor.ExerciseEntry

func parseExercise(s string) (exerciseInput, error) {
	name, rest, hasSets := strings.Cut(s, ":")
	input := exerciseInput{Name: strings.TrimSpace(name)}
	if input.Name == "" {
		return input, fmt.Errorf("exercise needs a name: %q", s)
	}
	if !hasSets || strings.TrimSpace(rest) == "" {
		return input, nil
	}

	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		completed := "true"
		if trimmed, ok := strings.CutSuffix(part, "(skipped)"); ok {
			part = strings.TrimSpace(trimmed)
			completed = "false"
		}
		if part == "" {
			return input, fmt.Errorf("empty set in %q", s)
		}

		fields := strings.Split(strings.ToLower(part), "x")
		switch len(fields) {
		case 1:
			input.Sets = append(input.Sets, setInput{Reps: fields[0], Weight: "0", Completed: completed})
		case 2:
			input.Sets = append(input.Sets, setInput{Reps: fields[0], Weight: fields[1], Completed: completed})
		default:
			return input, fmt.Errorf("invalid set %q (use REPSxWEIGHT)", part)
		}
	}
	return input, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// truncate shortens s to maxLen runes, never splitting a rune.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

func formatWeight(w float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", w), "0"), ".")
}

// sinceFilter parses an optional --since value.
func sinceFilter(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", s)
	}
	return &t, nil
}
