// ABOUTME: Demo workouts used to seed a fresh in-memory session.
// ABOUTME: Mirrors the two sample sessions shown on first launch.
package models

import "time"

// DemoWorkouts returns the sample workouts, newest first, dated relative to now.
func DemoWorkouts(now time.Time) []*Workout {
	day := 24 * time.Hour
	return []*Workout{
		{
			ID:              "w-1",
			Name:            "Upper Body Power",
			Date:            now.Add(-2 * day).UTC(),
			DurationMinutes: 45,
			Exercises: []Exercise{
				{
					ID:   "e-1",
					Name: "Bench Press",
					Sets: []Set{
						{ID: "s-1", Reps: 10, Weight: 135, Completed: true},
						{ID: "s-2", Reps: 8, Weight: 155, Completed: true},
						{ID: "s-3", Reps: 5, Weight: 175, Completed: true},
					},
				},
				{
					ID:   "e-2",
					Name: "Pull Ups",
					Sets: []Set{
						{ID: "s-4", Reps: 12, Weight: 0, Completed: true},
						{ID: "s-5", Reps: 10, Weight: 0, Completed: true},
					},
				},
			},
		},
		{
			ID:              "w-2",
			Name:            "Leg Day",
			Date:            now.Add(-5 * day).UTC(),
			DurationMinutes: 60,
			Exercises: []Exercise{
				{
					ID:   "e-3",
					Name: "Squat",
					Sets: []Set{
						{ID: "s-6", Reps: 10, Weight: 185, Completed: true},
						{ID: "s-7", Reps: 10, Weight: 185, Completed: true},
						{ID: "s-8", Reps: 10, Weight: 185, Completed: true},
					},
				},
			},
		},
	}
}
