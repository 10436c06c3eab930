// ABOUTME: Line commands that drive the draft editor from the log view.
// ABOUTME: Exercise and set numbers are 1-based positions in the draft.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/fit/internal/editor"
)

// logHelp lists the log view commands.
const logHelp = "name <text> · duration <min> · notes <text> · add <exercise> · rename <ex> <name> · set <ex> · " +
	"reps|weight <ex> <set> <n> · done <ex> <set> <y/n> · rm <ex> [set] · save · cancel"

var errUsage = errors.New("unknown command (type help)")

// logAction tells the model what to do after a command ran.
type logAction int

const (
	actionNone logAction = iota
	actionSave
	actionCancel
	actionHelp
)

// runLogCommand applies one command line to the editor.
func runLogCommand(ed *editor.Editor, line string) (string, logAction, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", actionNone, nil
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch strings.ToLower(verb) {
	case "name":
		ed.SetName(rest)
		return fmt.Sprintf("Name set to %q", rest), actionNone, nil

	case "duration":
		ed.SetDuration(rest)
		return fmt.Sprintf("Duration set to %d min", ed.Draft().DurationMinutes), actionNone, nil

	case "notes":
		ed.SetNotes(rest)
		return "Notes updated", actionNone, nil

	case "add":
		exID := ed.AddExercise()
		ed.RenameExercise(exID, rest)
		return fmt.Sprintf("Added exercise %d", len(ed.Draft().Exercises)), actionNone, nil

	case "rename":
		if len(args) < 1 {
			return "", actionNone, errors.New("usage: rename <ex> <name>")
		}
		exID, err := exerciseAt(ed, args[0])
		if err != nil {
			return "", actionNone, err
		}
		name := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
		ed.RenameExercise(exID, name)
		return fmt.Sprintf("Renamed exercise %s", args[0]), actionNone, nil

	case "set":
		if len(args) != 1 {
			return "", actionNone, errors.New("usage: set <ex>")
		}
		exID, err := exerciseAt(ed, args[0])
		if err != nil {
			return "", actionNone, err
		}
		ed.AddSet(exID)
		return fmt.Sprintf("Added a set to exercise %s", args[0]), actionNone, nil

	case "reps", "weight", "done":
		if len(args) != 3 {
			return "", actionNone, fmt.Errorf("usage: %s <ex> <set> <value>", verb)
		}
		exID, setID, err := setAt(ed, args[0], args[1])
		if err != nil {
			return "", actionNone, err
		}
		field := map[string]editor.SetField{
			"reps":   editor.FieldReps,
			"weight": editor.FieldWeight,
			"done":   editor.FieldCompleted,
		}[strings.ToLower(verb)]
		value := args[2]
		if field == editor.FieldCompleted {
			value = yesNo(value)
		}
		ed.UpdateSetField(exID, setID, field, value)
		return fmt.Sprintf("Updated set %s of exercise %s", args[1], args[0]), actionNone, nil

	case "rm":
		switch len(args) {
		case 1:
			exID, err := exerciseAt(ed, args[0])
			if err != nil {
				return "", actionNone, err
			}
			ed.RemoveExercise(exID)
			return fmt.Sprintf("Removed exercise %s", args[0]), actionNone, nil
		case 2:
			exID, setID, err := setAt(ed, args[0], args[1])
			if err != nil {
				return "", actionNone, err
			}
			ed.RemoveSet(exID, setID)
			return fmt.Sprintf("Removed set %s of exercise %s", args[1], args[0]), actionNone, nil
		default:
			return "", actionNone, errors.New("usage: rm <ex> [set]")
		}

	case "save":
		return "", actionSave, nil
	case "cancel":
		return "", actionCancel, nil
	case "help", "?":
		return logHelp, actionHelp, nil
	}
	return "", actionNone, errUsage
}

func exerciseAt(ed *editor.Editor, pos string) (string, error) {
	n, err := strconv.Atoi(pos)
	exercises := ed.Draft().Exercises
	if err != nil || n < 1 || n > len(exercises) {
		return "", fmt.Errorf("no exercise %s", pos)
	}
	return exercises[n-1].ID, nil
}

func setAt(ed *editor.Editor, exPos, setPos string) (string, string, error) {
	n, err := strconv.Atoi(exPos)
	exercises := ed.Draft().Exercises
	if err != nil || n < 1 || n > len(exercises) {
		return "", "", fmt.Errorf("no exercise %s", exPos)
	}
	ex := exercises[n-1]
	m, err := strconv.Atoi(setPos)
	if err != nil || m < 1 || m > len(ex.Sets) {
		return "", "", fmt.Errorf("no set %s in exercise %s", setPos, exPos)
	}
	return ex.ID, ex.Sets[m-1].ID, nil
}

// yesNo maps y/n shorthands onto the editor's boolean input.
func yesNo(v string) string {
	switch strings.ToLower(v) {
	case "y", "yes":
		return "true"
	case "n", "no":
		return "false"
	}
	return v
}
