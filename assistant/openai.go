package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"newsbrief/types"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI drives the Assistants v2 API through the official SDK
type OpenAI struct {
	client openai.Client
	model  string

	mu         sync.Mutex
	assistants map[string]string // profile name -> assistant ID
}

var _ Conversation = (*OpenAI)(nil)

// Options configures the OpenAI adapter
type Options struct {
	APIKey  string
	Model   string
	BaseURL string

	// SummaryAssistantID reuses an existing assistant for the summary profile
	SummaryAssistantID string

	// Extra request options, mostly for tests
	RequestOptions []option.RequestOption
}

func NewOpenAI(opts Options) *OpenAI {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHeader("OpenAI-Beta", "assistants=v2"),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	reqOpts = append(reqOpts, opts.RequestOptions...)

	a := &OpenAI{
		client:     openai.NewClient(reqOpts...),
		model:      opts.Model,
		assistants: make(map[string]string),
	}
	if opts.SummaryAssistantID != "" {
		a.assistants[SummaryProfile().Name] = opts.SummaryAssistantID
	}
	return a
}

func (a *OpenAI) EnsureAssistant(ctx context.Context, p Profile) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id, ok := a.assistants[p.Name]; ok {
		return id, nil
	}

	model := p.Model
	if model == "" {
		model = a.model
	}

	created, err := a.client.Beta.Assistants.New(ctx, openai.BetaAssistantNewParams{
		Model:        openai.ChatModel(model),
		Name:         openai.String(p.Name),
		Instructions: openai.String(p.Instructions),
		Tools: []openai.AssistantToolUnionParam{{
			OfFunction: &openai.FunctionToolParam{
				Function: openai.FunctionDefinitionParam{
					Name:        p.FunctionName,
					Description: openai.String(p.FunctionDescription),
					Parameters:  openai.FunctionParameters(p.Parameters),
				},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create assistant %q: %w", p.Name, err)
	}

	log.Printf("🤖 Created assistant %s (%s)", p.Name, created.ID)
	a.assistants[p.Name] = created.ID
	return created.ID, nil
}

func (a *OpenAI) StartRun(ctx context.Context, assistantID, userMessage, runInstructions string) (Run, error) {
	thread, err := a.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return Run{}, fmt.Errorf("failed to create thread: %w", err)
	}

	_, err = a.client.Beta.Threads.Messages.New(ctx, thread.ID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(userMessage),
		},
	})
	if err != nil {
		return Run{}, fmt.Errorf("failed to add message to thread %s: %w", thread.ID, err)
	}

	params := openai.BetaThreadRunNewParams{AssistantID: assistantID}
	if runInstructions != "" {
		params.Instructions = openai.String(runInstructions)
	}
	run, err := a.client.Beta.Threads.Runs.New(ctx, thread.ID, params)
	if err != nil {
		return Run{}, fmt.Errorf("failed to start run on thread %s: %w", thread.ID, err)
	}
	return convertRun(run), nil
}

func (a *OpenAI) GetRun(ctx context.Context, threadID, runID string) (Run, error) {
	run, err := a.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return Run{}, fmt.Errorf("failed to retrieve run %s: %w", runID, err)
	}
	return convertRun(run), nil
}

func (a *OpenAI) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (Run, error) {
	params := openai.BetaThreadRunSubmitToolOutputsParams{
		ToolOutputs: make([]openai.BetaThreadRunSubmitToolOutputsParamsToolOutput, 0, len(outputs)),
	}
	for _, o := range outputs {
		params.ToolOutputs = append(params.ToolOutputs, openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(o.ToolCallID),
			Output:     openai.String(o.Output),
		})
	}

	run, err := a.client.Beta.Threads.Runs.SubmitToolOutputs(ctx, threadID, runID, params)
	if err != nil {
		return Run{}, fmt.Errorf("failed to submit tool outputs for run %s: %w", runID, err)
	}
	return convertRun(run), nil
}

func (a *OpenAI) FinalMessage(ctx context.Context, threadID, runID string) (string, error) {
	page, err := a.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		RunID: openai.String(runID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list messages for run %s: %w", runID, err)
	}

	// Messages are listed newest first
	for _, msg := range page.Data {
		if string(msg.Role) != "assistant" {
			continue
		}
		var parts []string
		for _, c := range msg.Content {
			if c.Type == "text" && c.Text.Value != "" {
				parts = append(parts, c.Text.Value)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n\n"), nil
		}
	}
	return "", nil
}

func (a *OpenAI) RunSteps(ctx context.Context, threadID, runID string) ([]types.RunStep, error) {
	page, err := a.client.Beta.Threads.Runs.Steps.List(ctx, threadID, runID, openai.BetaThreadRunStepListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list steps for run %s: %w", runID, err)
	}

	steps := make([]types.RunStep, 0, len(page.Data))
	for _, s := range page.Data {
		steps = append(steps, types.RunStep{
			ID:     s.ID,
			Type:   string(s.Type),
			Status: string(s.Status),
		})
	}
	return steps, nil
}

func convertRun(r *openai.Run) Run {
	run := Run{
		ID:        r.ID,
		ThreadID:  r.ThreadID,
		Status:    RunStatus(r.Status),
		LastError: r.LastError.Message,
	}
	for _, tc := range r.RequiredAction.SubmitToolOutputs.ToolCalls {
		run.ToolCalls = append(run.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return run
}
