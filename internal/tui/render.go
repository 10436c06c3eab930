// ABOUTME: Text rendering for the four views using lipgloss styles.
// ABOUTME: Charts are drawn as plain bars; coach replies are shown as raw text.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/fit/internal/editor"
	"github.com/harperreed/fit/internal/metrics"
	"github.com/harperreed/fit/internal/models"
)

// CoachTip is the dashboard's closing line.
const CoachTip = `"Fit Mind. Fit Body. Consistency is the key to your transformation."`

const barWidth = 30

var (
	neon   = lipgloss.Color("#84CC16")
	muted  = lipgloss.Color("#94A3B8")
	orange = lipgloss.Color("#FB923C")
	red    = lipgloss.Color("#FF6B6B")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	taglineStyle   = lipgloss.NewStyle().Foreground(neon)
	mutedStyle     = lipgloss.NewStyle().Foreground(muted)
	valueStyle     = lipgloss.NewStyle().Bold(true)
	accentStyle    = lipgloss.NewStyle().Foreground(neon).Bold(true)
	streakStyle    = lipgloss.NewStyle().Foreground(orange).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(red).Bold(true)
	activeTabStyle = lipgloss.NewStyle().Foreground(neon).Bold(true).Underline(true)
	tabStyle       = lipgloss.NewStyle().Foreground(muted)
	panelStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)
	userStyle  = lipgloss.NewStyle().Foreground(neon).Bold(true)
	modelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")).Bold(true)
)

func renderTabs(current models.View) string {
	tabs := make([]string, 0, len(models.AllViews))
	for i, v := range models.AllViews {
		label := fmt.Sprintf("%d %s", i+1, v.Label())
		if v == current {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return strings.Join(tabs, "   ")
}

func renderDashboard(d metrics.Dashboard) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Stronger Every Day."))
	sb.WriteString("\n")
	sb.WriteString(taglineStyle.Render("Train. Transform. Thrive."))
	sb.WriteString("\n\n")

	streak := mutedStyle.Render("Inactive")
	if d.StreakActive {
		streak = streakStyle.Render("Active")
	}
	stats := []string{
		stat(fmt.Sprint(d.TotalWorkouts), "Workouts"),
		stat(fmt.Sprint(d.TotalMinutes), "Minutes"),
		stat("Pro", "Level"),
		panelStyle.Render(streak + "\n" + mutedStyle.Render("STREAK")),
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, stats...))
	sb.WriteString("\n\n")

	sb.WriteString(titleStyle.Render("Recent Activity"))
	sb.WriteString("\n")
	if len(d.Recent) == 0 {
		sb.WriteString(mutedStyle.Render("No workouts logged yet. Start today!"))
		sb.WriteString("\n")
	}
	for _, r := range d.Recent {
		sb.WriteString(fmt.Sprintf("%s  %-24s %s  %s\n",
			valueStyle.Render(fmt.Sprintf("%2d", r.Date.Day())),
			r.Name,
			mutedStyle.Render(fmt.Sprintf("%d Exercises • %d Min", r.ExerciseCount, r.DurationMinutes)),
			accentStyle.Render(fmt.Sprintf("%s lbs", formatThousands(r.Volume))),
		))
	}

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("Coach's Tip"))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Italic(true).Render(CoachTip))
	return sb.String()
}

func stat(value, label string) string {
	return panelStyle.Render(valueStyle.Render(value) + "\n" + mutedStyle.Render(strings.ToUpper(label)))
}

func renderProgress(p metrics.ProgressReport) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Your Progress"))
	sb.WriteString("\n\n")

	sb.WriteString(accentStyle.Render("Volume Over Time (lbs)"))
	sb.WriteString("\n")
	if len(p.Volume) == 0 {
		sb.WriteString(mutedStyle.Render("Not enough data yet."))
		sb.WriteString("\n")
	} else {
		peak := 0.0
		for _, pt := range p.Volume {
			peak = max(peak, pt.Volume)
		}
		for _, pt := range p.Volume {
			sb.WriteString(fmt.Sprintf("%-7s %s %s\n", pt.Label, bar(pt.Volume, peak), formatThousands(pt.Volume)))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(accentStyle.Render("Weekly Frequency"))
	sb.WriteString("\n")
	for _, d := range p.WeeklyFrequency {
		sb.WriteString(fmt.Sprintf("%-4s %s %d\n", d.Day, strings.Repeat("■", d.Count), d.Count))
	}

	sb.WriteString("\n")
	sb.WriteString(accentStyle.Render("Total Lifted"))
	sb.WriteString("\n")
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%.1f Tons", p.LiftedTons)))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("That's roughly equal to %d small cars!", p.CarEquivalent)))
	return sb.String()
}

// bar draws v as a share of peak.
func bar(v, peak float64) string {
	if peak <= 0 {
		return strings.Repeat(" ", barWidth)
	}
	n := int(v / peak * barWidth)
	return accentStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", barWidth-n)
}

func renderDraft(d editor.Draft) string {
	var sb strings.Builder
	name := d.Name
	if strings.TrimSpace(name) == "" {
		name = mutedStyle.Render("(unnamed)")
	}
	sb.WriteString(titleStyle.Render("Log Workout"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Name: %s   Duration: %d min\n", name, d.DurationMinutes))
	if d.Notes != "" {
		sb.WriteString(fmt.Sprintf("Notes: %s\n", d.Notes))
	}
	sb.WriteString("\n")

	if len(d.Exercises) == 0 {
		sb.WriteString(mutedStyle.Render("No exercises yet. Try: add Bench Press"))
		sb.WriteString("\n")
	}
	for i, ex := range d.Exercises {
		exName := ex.Name
		if exName == "" {
			exName = mutedStyle.Render("(unnamed)")
		}
		sb.WriteString(accentStyle.Render(fmt.Sprintf("%d. ", i+1)) + exName + "\n")
		for j, s := range ex.Sets {
			check := "✓"
			if !s.Completed {
				check = "·"
			}
			sb.WriteString(fmt.Sprintf("   set %d  %3d reps × %s lbs  %s\n", j+1, s.Reps, formatWeight(s.Weight), check))
		}
	}
	return sb.String()
}

func renderConversation(msgs []models.ChatMessage, awaiting bool, spin string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Faisal AI"))
	sb.WriteString(mutedStyle.Render("  Elite Performance Coach"))
	sb.WriteString("\n\n")
	for _, m := range msgs {
		if m.Role == models.RoleUser {
			sb.WriteString(userStyle.Render("You: "))
		} else {
			sb.WriteString(modelStyle.Render("Faisal: "))
		}
		sb.WriteString(m.Text)
		sb.WriteString("\n\n")
	}
	if awaiting {
		sb.WriteString(spin + mutedStyle.Render(" Faisal is typing..."))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatWeight(w float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", w), "0"), ".")
}

// formatThousands renders a whole number with comma separators.
func formatThousands(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
