// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package tui renders migration progress, prompts and reports in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Trello blue, plus status colours.
var (
	primaryColor = lipgloss.Color("#0079bf")
	subtleColor  = lipgloss.Color("#626262")
	successColor = lipgloss.Color("#61bd4f")
	warnColor    = lipgloss.Color("#f2d600")
	errorColor   = lipgloss.Color("#eb5a46")

	titleStyle      = lipgloss.NewStyle().Foreground(primaryColor).Bold(true).MarginBottom(1)
	stepStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStepStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	doneStepStyle   = lipgloss.NewStyle().Foreground(successColor)
	warnStyle       = lipgloss.NewStyle().Foreground(warnColor)
	errorStepStyle  = lipgloss.NewStyle().Foreground(errorColor)
	subtleStyle     = lipgloss.NewStyle().Foreground(subtleColor)
)

// stallNotice is how long the view waits for a message before saying so.
// Issue creation can stall on GitHub's secondary rate limits. The notice is
// display only; the run is never interrupted.
const stallNotice = 2 * time.Minute

// recentLimit is how many progress lines stay on screen.
const recentLimit = 5

// PipelineStatusMsg indicates a status update from the pipeline.
type PipelineStatusMsg struct {
	Step    string
	Status  string // "started", "progress", "success", "error", "cancelled"
	Message string
}

// ResultMsg indicates the final result.
type ResultMsg struct {
	Success bool
	Output  string
}

// stalledMsg reports that no message arrived for stallNotice.
type stalledMsg struct{}

// stepState is what the view knows about one step.
type stepState struct {
	status string
	done   int
	total  int
}

// Model is the migration progress view.
type Model struct {
	spinner  spinner.Model
	bar      progress.Model
	title    string
	steps    []string
	state    map[string]*stepState
	recent   []string
	err      error
	stalled  bool
	hidden   bool
	quitting bool

	statusChan <-chan PipelineStatusMsg
}

// NewModel creates a progress view over the named steps.
func NewModel(title string, steps []string, statusChan <-chan PipelineStatusMsg) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	state := make(map[string]*stepState, len(steps))
	for _, name := range steps {
		state[name] = &stepState{}
	}

	return Model{
		spinner:    s,
		bar:        progress.New(progress.WithSolidFill(string(primaryColor)), progress.WithWidth(30)),
		title:      title,
		steps:      steps,
		state:      state,
		statusChan: statusChan,
	}
}

// WithTotal sets how many progress messages a step is expected to send,
// which turns its counter into a progress bar.
func (m Model) WithTotal(step string, total int) Model {
	if st, ok := m.state[step]; ok {
		st.total = total
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForActivity())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.hidden = true
			m.quitting = true
			return m, tea.Quit
		}

	case stalledMsg:
		m.stalled = true
		return m, m.waitForActivity()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PipelineStatusMsg:
		m.stalled = false
		m.apply(msg)
		return m, m.waitForActivity()

	case ResultMsg:
		if msg.Output != "" {
			fmt.Println("\n" + msg.Output)
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) apply(msg PipelineStatusMsg) {
	st, ok := m.state[msg.Step]
	if !ok {
		st = &stepState{}
		m.state[msg.Step] = st
		m.steps = append(m.steps, msg.Step)
	}

	switch msg.Status {
	case "progress":
		st.done++
		m.recent = append(m.recent, fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg.Message))
		if len(m.recent) > recentLimit {
			m.recent = m.recent[len(m.recent)-recentLimit:]
		}
	case "error":
		st.status = msg.Status
		m.err = fmt.Errorf("%s: %s", msg.Step, msg.Message)
	default:
		st.status = msg.Status
	}
}

func (m Model) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg, ok := <-m.statusChan:
			if !ok {
				return ResultMsg{Success: true}
			}
			return msg
		case <-time.After(stallNotice):
			return stalledMsg{}
		}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(m.title) + "\n\n")

	for _, name := range m.steps {
		s.WriteString(m.stepLine(name) + "\n")
	}

	if len(m.recent) > 0 {
		s.WriteString("\n")
		for _, line := range m.recent {
			s.WriteString(subtleStyle.Render(line) + "\n")
		}
	}

	if m.stalled {
		s.WriteString("\n" + warnStyle.Render("No progress for a while, still waiting on GitHub...") + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStepStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	s.WriteString(subtleStyle.Render("\nPress q to hide (the migration keeps running)\n"))
	return s.String()
}

// Hidden reports whether the user closed the view before the run ended.
func (m Model) Hidden() bool {
	return m.hidden
}

func (m Model) stepLine(name string) string {
	st := m.state[name]

	prefix, style := "  ", stepStyle
	switch st.status {
	case "success":
		prefix, style = "✓ ", doneStepStyle
	case "error":
		prefix, style = "✗ ", errorStepStyle
	case "cancelled":
		prefix, style = "○ ", subtleStyle
	case "started":
		prefix, style = m.spinner.View()+" ", activeStepStyle
	}

	switch {
	case st.total > 0:
		return style.Render(prefix+name) + " " + m.bar.ViewAs(float64(st.done)/float64(st.total)) +
			subtleStyle.Render(fmt.Sprintf(" %d/%d", st.done, st.total))
	case st.done > 0:
		return style.Render(fmt.Sprintf("%s%s (%d)", prefix, name, st.done))
	}
	return style.Render(prefix + name)
}
