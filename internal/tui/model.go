// ABOUTME: Bubbletea model for the interactive fit terminal UI.
// ABOUTME: Tabs between the four views; the log and coach views read a command line.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/fit/internal/app"
	"github.com/harperreed/fit/internal/coach"
	"github.com/harperreed/fit/internal/editor"
	"github.com/harperreed/fit/internal/models"
)

// replyMsg arrives when an outstanding coach reply has been appended.
type replyMsg struct{}

// Model represents the TUI state. The app holds the domain state; the
// model only keeps what belongs to the screen.
type Model struct {
	app     *app.App
	ctx     context.Context
	input   textinput.Model
	spinner spinner.Model

	notice  string
	isError bool
	width   int
	height  int
}

// NewModel creates a TUI model over a.
func NewModel(ctx context.Context, a *app.App) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60
	ti.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		app:     a,
		ctx:     ctx,
		input:   ti,
		spinner: sp,
	}
	return m.syncInput()
}

// Run starts the program in the alternate screen and blocks until it exits.
func Run(ctx context.Context, a *app.App) error {
	program := tea.NewProgram(NewModel(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-4, 20)
		return m, nil

	case replyMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.app.Conversation().Awaiting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.app.View()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.navigate(nextView(view, 1))
	case "shift+tab":
		return m.navigate(nextView(view, -1))
	case "esc":
		if view == models.ViewLog {
			m.app.CancelDraft()
			m.setNotice("Draft discarded", false)
			return m.syncInput(), nil
		}
		return m.navigate(models.ViewDashboard)
	}

	if !m.input.Focused() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "1", "2", "3", "4":
			return m.navigate(models.AllViews[msg.String()[0]-'1'])
		case "l", "n":
			return m.navigate(models.ViewLog)
		case "c":
			return m.navigate(models.ViewCoach)
		}
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		line := m.input.Value()
		if view == models.ViewCoach {
			return m.sendToCoach(line)
		}
		m.input.SetValue("")
		return m.runLog(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) navigate(view models.View) (tea.Model, tea.Cmd) {
	prev := m.app.View()
	if err := m.app.Navigate(view); err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}
	if prev == models.ViewLog && view != models.ViewLog {
		m.setNotice("Draft discarded", false)
	} else {
		m.notice = ""
	}
	return m.syncInput(), nil
}

func (m Model) runLog(line string) (tea.Model, tea.Cmd) {
	notice, action, err := runLogCommand(m.app.Editor(), line)
	if err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}

	switch action {
	case actionSave:
		w, err := m.app.SaveDraft()
		if err != nil {
			m.setNotice(saveErrorText(err), true)
			return m, nil
		}
		m.setNotice(fmt.Sprintf("Saved %s (%s lbs)", w.Name, formatThousands(w.Volume())), false)
		return m.syncInput(), nil
	case actionCancel:
		m.app.CancelDraft()
		m.setNotice("Draft discarded", false)
		return m.syncInput(), nil
	}

	m.setNotice(notice, false)
	return m, nil
}

func (m Model) sendToCoach(text string) (tea.Model, tea.Cmd) {
	p, ok := m.app.Conversation().Send(m.ctx, text)
	if !ok {
		if strings.TrimSpace(text) != "" {
			m.setNotice("Faisal is still answering", true)
		}
		return m, nil
	}
	m.input.SetValue("")
	m.notice = ""
	return m, tea.Batch(waitForReply(p), m.spinner.Tick)
}

// waitForReply turns a pending coach reply into a message.
func waitForReply(p *coach.Pending) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return replyMsg{}
	}
}

func (m *Model) setNotice(text string, isError bool) {
	m.notice = text
	m.isError = isError
}

// syncInput focuses the command line only where the view reads input.
func (m Model) syncInput() Model {
	switch m.app.View() {
	case models.ViewLog:
		m.input.Placeholder = "add Bench Press · set 1 · weight 1 1 135 · save (help for more)"
		m.input.Focus()
	case models.ViewCoach:
		m.input.Placeholder = "Ask Faisal about workouts, diet, or form..."
		m.input.Focus()
	default:
		m.input.Blur()
	}
	return m
}

func nextView(v models.View, step int) models.View {
	n := len(models.AllViews)
	for i, candidate := range models.AllViews {
		if candidate == v {
			return models.AllViews[((i+step)%n+n)%n]
		}
	}
	return models.ViewDashboard
}

func saveErrorText(err error) string {
	if editor.IsValidation(err) {
		return "Please add a workout name and at least one exercise."
	}
	return err.Error()
}

// View renders the current screen.
func (m Model) View() string {
	view := m.app.View()

	var body string
	switch view {
	case models.ViewDashboard:
		body = renderDashboard(m.app.Dashboard())
	case models.ViewProgress:
		body = renderProgress(m.app.Progress())
	case models.ViewLog:
		body = renderDraft(m.app.Editor().Draft())
	case models.ViewCoach:
		conv := m.app.Conversation()
		body = renderConversation(conv.Messages(), conv.Awaiting(), m.spinner.View())
	}

	var sb strings.Builder
	sb.WriteString(renderTabs(view))
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n")

	if view == models.ViewLog || view == models.ViewCoach {
		sb.WriteString("\n")
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
	}
	if m.notice != "" {
		if m.isError {
			sb.WriteString(errorStyle.Render(m.notice))
		} else {
			sb.WriteString(mutedStyle.Render(m.notice))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(mutedStyle.Render(helpLine(view)))
	return sb.String()
}

func helpLine(view models.View) string {
	switch view {
	case models.ViewLog:
		return "enter run · esc discard · tab switch view · ctrl+c quit"
	case models.ViewCoach:
		return "enter send · esc dashboard · tab switch view · ctrl+c quit"
	}
	return "1-4/tab switch view · l log workout · c coach · q quit"
}
