// ABOUTME: Workout CRUD operations for SQLite storage.
// ABOUTME: Exercises and sets are written in one transaction and cascade on delete.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/fit/internal/models"
)

// dateLayout is fixed-width UTC so that text ordering matches time ordering.
const dateLayout = "2006-01-02T15:04:05.000000000Z"

// SaveWorkout stores a workout with all its exercises and sets.
func (d *DB) SaveWorkout(w *models.Workout) (err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save workout: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.Exec(`
		INSERT INTO workouts (id, name, date, duration_minutes, notes)
		VALUES (?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Date.UTC().Format(dateLayout), w.DurationMinutes, w.Notes,
	)
	if err != nil {
		return fmt.Errorf("save workout: %w", err)
	}

	for i, ex := range w.Exercises {
		_, err = tx.Exec(`
			INSERT INTO exercises (workout_id, id, position, name)
			VALUES (?, ?, ?, ?)`,
			w.ID, ex.ID, i, ex.Name,
		)
		if err != nil {
			return fmt.Errorf("save exercise %s: %w", ex.ID, err)
		}

		for j, s := range ex.Sets {
			_, err = tx.Exec(`
				INSERT INTO sets (workout_id, exercise_id, id, position, reps, weight, completed)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				w.ID, ex.ID, s.ID, j, s.Reps, models.SafeNumber(s.Weight), s.Completed,
			)
			if err != nil {
				return fmt.Errorf("save set %s: %w", s.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save workout: commit: %w", err)
	}
	return nil
}

// GetWorkout retrieves a workout by ID or ID prefix with its exercises and sets.
func (d *DB) GetWorkout(idOrPrefix string) (*models.Workout, error) {
	id, err := d.resolveWorkoutID(idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}

	row := d.db.QueryRow(`
		SELECT id, name, date, duration_minutes, notes
		FROM workouts
		WHERE id = ?`, id)
	w, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get workout: %w: %s", ErrNotFound, idOrPrefix)
		}
		return nil, fmt.Errorf("get workout: %w", err)
	}

	if err := d.loadExercises([]*models.Workout{w}); err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkouts retrieves workouts sorted by date descending (most recent first).
func (d *DB) ListWorkouts(limit int) ([]*models.Workout, error) {
	query := `
		SELECT id, name, date, duration_minutes, notes
		FROM workouts
		ORDER BY date DESC, created_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("list workouts: %w", err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	if err := d.loadExercises(workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// DeleteWorkout removes a workout and its exercises and sets (cascade delete).
func (d *DB) DeleteWorkout(idOrPrefix string) error {
	id, err := d.resolveWorkoutID(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM workouts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete workout: %w: %s", ErrNotFound, idOrPrefix)
	}
	return nil
}

// loadExercises fills in exercises and sets for each workout.
func (d *DB) loadExercises(workouts []*models.Workout) error {
	for _, w := range workouts {
		exRows, err := d.db.Query(`
			SELECT id, name FROM exercises
			WHERE workout_id = ?
			ORDER BY position ASC`, w.ID)
		if err != nil {
			return fmt.Errorf("list exercises: %w", err)
		}

		var exercises []models.Exercise
		for exRows.Next() {
			var ex models.Exercise
			if err := exRows.Scan(&ex.ID, &ex.Name); err != nil {
				exRows.Close()
				return fmt.Errorf("scan exercise: %w", err)
			}
			exercises = append(exercises, ex)
		}
		exRows.Close()
		if err := exRows.Err(); err != nil {
			return fmt.Errorf("list exercises: %w", err)
		}

		for i := range exercises {
			sets, err := d.listSets(w.ID, exercises[i].ID)
			if err != nil {
				return err
			}
			exercises[i].Sets = sets
		}
		w.Exercises = exercises
	}
	return nil
}

func (d *DB) listSets(workoutID, exerciseID string) ([]models.Set, error) {
	rows, err := d.db.Query(`
		SELECT id, reps, weight, completed FROM sets
		WHERE workout_id = ? AND exercise_id = ?
		ORDER BY position ASC`, workoutID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	sets := []models.Set{}
	for rows.Next() {
		var s models.Set
		if err := rows.Scan(&s.ID, &s.Reps, &s.Weight, &s.Completed); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// resolveWorkoutID finds the full ID from a prefix.
func (d *DB) resolveWorkoutID(idOrPrefix string) (string, error) {
	rows, err := d.db.Query(`SELECT id FROM workouts WHERE id = ? OR id LIKE ? || '%'`, idOrPrefix, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve workout ID: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan workout ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve workout ID: %w", err)
	}

	return resolvePrefix(ids, idOrPrefix)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanWorkout scans a single row into a Workout struct.
func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var date string
	var notes sql.NullString

	if err := row.Scan(&w.ID, &w.Name, &date, &w.DurationMinutes, &notes); err != nil {
		return nil, err
	}

	t, err := time.Parse(dateLayout, date)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
	}
	w.Date = t
	if notes.Valid {
		w.Notes = &notes.String
	}
	return &w, nil
}
