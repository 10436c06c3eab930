// ABOUTME: View enum for the four application screens.
// ABOUTME: Used by the router, the CLI, and the TUI.
package models

// View selects which screen is active.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewLog       View = "log"
	ViewProgress  View = "progress"
	ViewCoach     View = "coach"
)

// AllViews lists the views in navigation order.
var AllViews = []View{ViewDashboard, ViewLog, ViewProgress, ViewCoach}

// IsValidView checks if a string names a known view.
func IsValidView(s string) bool {
	for _, v := range AllViews {
		if string(v) == s {
			return true
		}
	}
	return false
}

// Label returns the navigation label for the view.
func (v View) Label() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewLog:
		return "Log Workout"
	case ViewProgress:
		return "Progress"
	case ViewCoach:
		return "AI Coach"
	default:
		return string(v)
	}
}
