// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a yes/no prompt. Anything but an explicit yes is a no.
type ConfirmModel struct {
	question string
	answer   bool
	done     bool
}

// NewConfirmModel creates a prompt for the question.
func NewConfirmModel(question string) ConfirmModel {
	return ConfirmModel{question: question}
}

// Init initializes the model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.answer = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the prompt.
func (m ConfirmModel) View() string {
	if m.done {
		answer := "no"
		if m.answer {
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", warnStyle.Render(m.question), subtleStyle.Render(answer))
	}
	return fmt.Sprintf("%s %s ", warnStyle.Render(m.question), subtleStyle.Render("[y/N]"))
}

// Answer reports whether the user agreed.
func (m ConfirmModel) Answer() bool {
	return m.answer
}

// Prompter asks questions on the terminal.
type Prompter struct{}

// Confirm runs a prompt and waits for the answer.
func (Prompter) Confirm(question string) (bool, error) {
	final, err := tea.NewProgram(NewConfirmModel(question)).Run()
	if err != nil {
		return false, fmt.Errorf("failed to run prompt: %w", err)
	}
	return final.(ConfirmModel).Answer(), nil
}
