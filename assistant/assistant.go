package assistant

import (
	"context"

	"newsbrief/types"
)

// RunStatus mirrors the lifecycle states of an Assistants API run
type RunStatus string

const (
	StatusQueued         RunStatus = "queued"
	StatusInProgress     RunStatus = "in_progress"
	StatusRequiresAction RunStatus = "requires_action"
	StatusCancelling     RunStatus = "cancelling"
	StatusCancelled      RunStatus = "cancelled"
	StatusCompleted      RunStatus = "completed"
	StatusFailed         RunStatus = "failed"
	StatusExpired        RunStatus = "expired"
	StatusIncomplete     RunStatus = "incomplete"
)

// Pending reports whether the run is still being worked on by the assistant
func (s RunStatus) Pending() bool {
	return s == StatusQueued || s == StatusInProgress
}

// Terminal reports whether the run can no longer change state
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusFailed, StatusExpired, StatusIncomplete:
		return true
	}
	return false
}

// ToolCall is a function invocation the assistant is waiting on
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolOutput is the result submitted back for a ToolCall
type ToolOutput struct {
	ToolCallID string
	Output     string
}

// Run is a snapshot of one conversation turn
type Run struct {
	ID        string
	ThreadID  string
	Status    RunStatus
	ToolCalls []ToolCall
	LastError string
}

// Conversation is the subset of the Assistants API the orchestrator drives
type Conversation interface {
	// EnsureAssistant returns the ID of an assistant configured with the profile,
	// creating it on first use
	EnsureAssistant(ctx context.Context, p Profile) (string, error)

	// StartRun opens a new thread, posts the user message and starts a run
	StartRun(ctx context.Context, assistantID, userMessage, runInstructions string) (Run, error)

	GetRun(ctx context.Context, threadID, runID string) (Run, error)
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (Run, error)

	// FinalMessage returns the text of the latest assistant message produced by the run
	FinalMessage(ctx context.Context, threadID, runID string) (string, error)

	RunSteps(ctx context.Context, threadID, runID string) ([]types.RunStep, error)
}
