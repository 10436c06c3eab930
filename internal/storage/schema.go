// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for workouts, exercises, and sets.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS exercises (
		workout_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (workout_id, id),
		FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS sets (
		workout_id TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		reps INTEGER NOT NULL,
		weight REAL NOT NULL,
		completed INTEGER NOT NULL,
		PRIMARY KEY (workout_id, exercise_id, id),
		FOREIGN KEY (workout_id, exercise_id) REFERENCES exercises(workout_id, id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date DESC);
	CREATE INDEX IF NOT EXISTS idx_exercises_workout ON exercises(workout_id, position);
	CREATE INDEX IF NOT EXISTS idx_sets_exercise ON sets(workout_id, exercise_id, position);
	`

	_, err := d.db.Exec(schema)
	return err
}
