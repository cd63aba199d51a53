package tui

import (
	"strings"

	"newsbrief/assistant"
	"newsbrief/orchestrator"
	"newsbrief/types"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if m.State != StateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	case BriefMsg:
		return m.handleBrief(msg)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.cancel()
		return m, tea.Quit
	}

	if m.State == StateRunning {
		return m, nil
	}

	switch msg.String() {
	case "enter":
		if strings.TrimSpace(m.Input.Value()) == "" {
			m.State = StateError
			m.Err = orchestrator.ErrEmptyTopic
			m.Brief = nil
			return m, nil
		}
		m.State = StateRunning
		m.Err = nil
		m.Brief = nil
		return m, tea.Batch(m.Spinner.Tick, runBrief(m.ctx, m.runner, m.request()))
	case "tab":
		if m.Mode == types.ModeSentiment {
			m.Mode = types.ModeSummary
		} else {
			m.Mode = types.ModeSentiment
		}
		return m, nil
	case "shift+tab":
		if m.Mode == types.ModeSentiment {
			m.FocusIdx = (m.FocusIdx + 1) % len(assistant.Focuses)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// handleBrief processes run completion
func (m Model) handleBrief(msg BriefMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.State = StateComplete
	m.Brief = msg.Brief
	return m, nil
}
