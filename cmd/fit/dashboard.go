// ABOUTME: CLI commands for the dashboard and progress summaries.
// ABOUTME: Prints the same figures the interactive views show.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fit/internal/metrics"
	"github.com/harperreed/fit/internal/models"
	"github.com/spf13/cobra"
)

const barWidth = 30

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"d"},
	Short:   "Show totals, streak, and recent activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := fitApp.Dashboard()
		faint := color.New(color.Faint)

		color.New(color.Bold).Println("Stronger Every Day.")
		fmt.Println()
		fmt.Printf("Workouts:  %d\n", d.TotalWorkouts)
		fmt.Printf("Minutes:   %d\n", d.TotalMinutes)
		if d.StreakActive {
			color.Green("Streak:    active")
		} else {
			color.Yellow("Streak:    inactive")
		}
		if d.DaysSinceLast != nil {
			fmt.Printf("Last:      %s\n", daysAgo(*d.DaysSinceLast))
		}

		fmt.Println()
		fmt.Println("Recent Activity")
		if len(d.Recent) == 0 {
			faint.Println("  No workouts yet. Log one with 'fit log'.")
		}
		for _, r := range d.Recent {
			fmt.Printf("  %s %s %d exercises, %d min\n",
				faint.Sprint(r.Date.Local().Format("Jan 02")),
				padRight(truncate(r.Name, 24), 24),
				r.ExerciseCount,
				r.DurationMinutes)
		}

		fmt.Println()
		faint.Println(`"Fit Mind. Fit Body. Consistency is the key to your transformation."`)
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:     "progress",
	Aliases: []string{"p"},
	Short:   "Show volume trend and weekly frequency",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := fitApp.Progress()
		faint := color.New(color.Faint)

		fmt.Println("Volume Trend")
		if len(p.Volume) == 0 {
			faint.Println("  No workouts yet.")
		}
		peak := peakVolume(p.Volume)
		for _, v := range p.Volume {
			fmt.Printf("  %s %s %s\n",
				faint.Sprint(padRight(v.Label, 6)),
				color.GreenString(bar(v.Volume, peak)),
				formatWeight(v.Volume))
		}

		fmt.Println()
		fmt.Println("Weekly Frequency")
		for _, day := range p.WeeklyFrequency {
			fmt.Printf("  %s %s\n", padRight(day.Day, 4), strings.Repeat("■ ", day.Count))
		}

		fmt.Println()
		color.Green("Total lifted: %.1f Tons", p.LiftedTons)
		fmt.Printf("That's roughly equal to %d small cars!\n", p.CarEquivalent)
		return nil
	},
}

func daysAgo(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func peakVolume(points []metrics.VolumePoint) float64 {
	var peak float64
	for _, p := range points {
		peak = max(peak, p.Volume)
	}
	return peak
}

func bar(v, peak float64) string {
	if peak <= 0 {
		return ""
	}
	n := int(models.SafeNumber(v/peak) * barWidth)
	return strings.Repeat("█", n)
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(progressCmd)
}
