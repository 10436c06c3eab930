// ABOUTME: Bundled figures for the dashboard and progress views.
// ABOUTME: Built from the pure metric functions at a given instant.
package metrics

import (
	"time"

	"github.com/harperreed/fit/internal/models"
)

// RecentLimit is how many workouts the dashboard lists.
const RecentLimit = 3

// RecentWorkout is a compact dashboard row.
type RecentWorkout struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Date            time.Time `json:"date"`
	ExerciseCount   int       `json:"exerciseCount"`
	DurationMinutes int       `json:"durationMinutes"`
	Volume          float64   `json:"volume"`
}

// Dashboard holds the headline numbers.
type Dashboard struct {
	TotalWorkouts int             `json:"totalWorkouts"`
	TotalMinutes  int             `json:"totalMinutes"`
	StreakActive  bool            `json:"streakActive"`
	DaysSinceLast *int            `json:"daysSinceLast,omitempty"`
	Recent        []RecentWorkout `json:"recent"`
}

// ProgressReport holds the trend and consistency data.
type ProgressReport struct {
	Volume          []VolumePoint `json:"volume"`
	WeeklyFrequency []DayCount    `json:"weeklyFrequency"`
	LiftedTons      float64       `json:"liftedTons"`
	CarEquivalent   int           `json:"carEquivalent"`
}

// Summarize computes the dashboard at now.
func Summarize(workouts []*models.Workout, now time.Time) Dashboard {
	d := Dashboard{
		TotalWorkouts: TotalWorkouts(workouts),
		TotalMinutes:  TotalMinutes(workouts),
		StreakActive:  StreakActive(workouts, now),
		Recent:        make([]RecentWorkout, 0, RecentLimit),
	}
	if days, ok := DaysSinceLast(workouts, now); ok {
		d.DaysSinceLast = &days
	}
	for _, w := range Recent(workouts, RecentLimit) {
		if w == nil {
			continue
		}
		d.Recent = append(d.Recent, RecentWorkout{
			ID:              w.ID,
			Name:            w.Name,
			Date:            w.Date,
			ExerciseCount:   len(w.Exercises),
			DurationMinutes: w.DurationMinutes,
			Volume:          TotalVolume(w),
		})
	}
	return d
}

// Progress computes the progress report at now.
func Progress(workouts []*models.Workout, now time.Time) ProgressReport {
	return ProgressReport{
		Volume:          VolumeSeries(workouts),
		WeeklyFrequency: WeeklyFrequency(workouts, now),
		LiftedTons:      TotalLiftedTons(workouts),
		CarEquivalent:   CarEquivalent(workouts),
	}
}
