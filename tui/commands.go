package tui

import (
	"context"

	"newsbrief/orchestrator"

	tea "github.com/charmbracelet/bubbletea"
)

// runBrief creates a command that runs one request to completion
func runBrief(ctx context.Context, runner Runner, req orchestrator.Request) tea.Cmd {
	return func() tea.Msg {
		brief, err := runner.Summarize(ctx, req)
		return BriefMsg{Brief: brief, Err: err}
	}
}
