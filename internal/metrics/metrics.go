// ABOUTME: Dashboard and progress statistics derived from a workout list.
// ABOUTME: Every function is pure and total; empty input yields zero values.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/harperreed/fit/internal/models"
)

const (
	// StreakWindowDays is how recent the last workout must be to keep a streak.
	StreakWindowDays = 3

	poundsPerTon = 2000.0
	poundsPerCar = 3000.0

	dateKeyLayout = "2006-01-02"
)

// TotalWorkouts counts the workouts.
func TotalWorkouts(workouts []*models.Workout) int {
	return len(workouts)
}

// TotalMinutes sums the duration of every workout.
func TotalMinutes(workouts []*models.Workout) int {
	total := 0
	for _, w := range workouts {
		if w == nil {
			continue
		}
		total += max(w.DurationMinutes, 0)
	}
	return total
}

// DaysSinceLast returns the whole days, rounded up, between now and the
// first workout in the list. ok is false for an empty list.
func DaysSinceLast(workouts []*models.Workout, now time.Time) (days int, ok bool) {
	if len(workouts) == 0 || workouts[0] == nil {
		return 0, false
	}
	diff := now.Sub(workouts[0].Date)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24)), true
}

// StreakActive reports whether the most recent workout (index 0) falls
// within StreakWindowDays of now.
func StreakActive(workouts []*models.Workout, now time.Time) bool {
	days, ok := DaysSinceLast(workouts, now)
	if !ok {
		return false
	}
	return days <= StreakWindowDays
}

// TotalVolume sums weight times reps over all sets of a workout.
func TotalVolume(w *models.Workout) float64 {
	return w.Volume()
}

// VolumePoint is one workout on the volume trend.
type VolumePoint struct {
	Date   time.Time `json:"date"`
	Label  string    `json:"label"`
	Volume float64   `json:"volume"`
	Name   string    `json:"name"`
}

// VolumeSeries returns each workout's volume ordered oldest first.
// Workouts with equal dates keep their original relative order.
func VolumeSeries(workouts []*models.Workout) []VolumePoint {
	sorted := make([]*models.Workout, 0, len(workouts))
	for _, w := range workouts {
		if w != nil {
			sorted = append(sorted, w)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	points := make([]VolumePoint, 0, len(sorted))
	for _, w := range sorted {
		points = append(points, VolumePoint{
			Date:   w.Date,
			Label:  w.Date.UTC().Format("Jan 2"),
			Volume: TotalVolume(w),
			Name:   w.Name,
		})
	}
	return points
}

// DayCount is the number of workouts on one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// WeeklyFrequency counts workouts for each of the last seven calendar
// days, from six days before now through now. Days are UTC dates.
func WeeklyFrequency(workouts []*models.Workout, now time.Time) []DayCount {
	perDay := make(map[string]int)
	for _, w := range workouts {
		if w == nil {
			continue
		}
		perDay[w.Date.UTC().Format(dateKeyLayout)]++
	}

	days := make([]DayCount, 0, 7)
	for i := 6; i >= 0; i-- {
		d := now.UTC().AddDate(0, 0, -i)
		key := d.Format(dateKeyLayout)
		days = append(days, DayCount{
			Date:  key,
			Day:   d.Format("Mon"),
			Count: perDay[key],
		})
	}
	return days
}

// LiftedVolume sums the volume of every workout.
func LiftedVolume(workouts []*models.Workout) float64 {
	var total float64
	for _, w := range workouts {
		total += TotalVolume(w)
	}
	return total
}

// TotalLiftedTons converts total volume to tons, rounded to one decimal.
func TotalLiftedTons(workouts []*models.Workout) float64 {
	return math.Round(LiftedVolume(workouts)/poundsPerTon*10) / 10
}

// CarEquivalent is how many whole cars the total volume would weigh.
func CarEquivalent(workouts []*models.Workout) int {
	return int(LiftedVolume(workouts) / poundsPerCar)
}

// Recent returns up to n workouts from the front of the list.
func Recent(workouts []*models.Workout, n int) []*models.Workout {
	if n <= 0 {
		return nil
	}
	if len(workouts) < n {
		n = len(workouts)
	}
	out := make([]*models.Workout, n)
	copy(out, workouts[:n])
	return out
}
