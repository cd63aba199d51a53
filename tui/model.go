package tui

import (
	"context"

	"newsbrief/assistant"
	"newsbrief/orchestrator"
	"newsbrief/types"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the application state machine
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateError    State = "error"
)

// Runner produces a brief. Satisfied by the in-process summarizer and the HTTP client.
type Runner interface {
	Summarize(ctx context.Context, req orchestrator.Request) (*types.Brief, error)
}

// Model represents the TUI state
type Model struct {
	runner Runner
	ctx    context.Context
	cancel context.CancelFunc

	Input   textinput.Model
	Spinner spinner.Model

	State    State
	Mode     types.Mode
	FocusIdx int
	Brief    *types.Brief
	Err      error

	width int
}

// NewModel creates a new TUI model. Quitting cancels any run in flight.
func NewModel(ctx context.Context, runner Runner, mode types.Mode) Model {
	ctx, cancel := context.WithCancel(ctx)

	input := textinput.New()
	input.Placeholder = TextPlaceholder
	input.Prompt = "Topic: "
	input.CharLimit = 200
	input.Width = 60
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StatusStyle

	if mode == "" {
		mode = types.ModeSummary
	}

	return Model{
		runner:  runner,
		ctx:     ctx,
		cancel:  cancel,
		Input:   input,
		Spinner: sp,
		State:   StateIdle,
		Mode:    mode,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Focus is the selected sentiment analysis focus
func (m Model) Focus() string {
	return assistant.Focuses[m.FocusIdx%len(assistant.Focuses)]
}

// request builds the orchestrator request for the current input
func (m Model) request() orchestrator.Request {
	req := orchestrator.Request{Topic: m.Input.Value(), Mode: m.Mode}
	if m.Mode == types.ModeSentiment {
		req.Focus = m.Focus()
	}
	return req
}
