package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"newsbrief/assistant"
	"newsbrief/config"
	"newsbrief/news"
	"newsbrief/sentiment"
	"newsbrief/types"

	"github.com/google/uuid"
)

const (
	// DefaultSentimentPageSize is used when neither the assistant nor the caller picks one
	DefaultSentimentPageSize = 10
	minSentimentPageSize     = 5

	// sentimentLanguage matches the language filter of sentiment searches
	sentimentLanguage = "en"
)

// NoDataSummary is the brief text when the assistant finishes silently after an empty search
const NoDataSummary = "No recent news articles were found for this topic, so there is nothing to summarize."

// Request is one user-triggered brief
type Request struct {
	Topic    string     `json:"topic"`
	Mode     types.Mode `json:"mode,omitempty"`
	Focus    string     `json:"focus,omitempty"`
	PageSize int        `json:"page_size,omitempty"`
}

// Sink receives every completed brief
type Sink interface {
	Publish(ctx context.Context, b *types.Brief) error
}

// Options tunes the poll loop
type Options struct {
	PollInterval time.Duration
	MaxPolls     int
	Language     string
	Sink         Sink
}

// OptionsFromConfig copies the polling settings out of the process configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PollInterval: cfg.PollInterval,
		MaxPolls:     cfg.MaxPolls,
		Language:     cfg.NewsLanguage,
	}
}

// Summarizer runs assistant conversations that call back into the news fetcher
type Summarizer struct {
	conv    assistant.Conversation
	fetcher news.Fetcher
	opts    Options

	// mu allows a single active run
	mu sync.Mutex
}

func New(conv assistant.Conversation, fetcher news.Fetcher, opts Options) *Summarizer {
	if opts.PollInterval <= 0 {
		opts.PollInterval = config.DefaultPollInterval
	}
	if opts.MaxPolls <= 0 {
		opts.MaxPolls = config.DefaultMaxPolls
	}
	return &Summarizer{conv: conv, fetcher: fetcher, opts: opts}
}

// runPlan is the resolved profile and prompts for one request
type runPlan struct {
	mode    types.Mode
	topic   string
	focus   string
	profile assistant.Profile
	prompt  string
}

func plan(req Request) (runPlan, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return runPlan{}, ErrEmptyTopic
	}

	mode, err := types.ParseMode(string(req.Mode))
	if err != nil {
		return runPlan{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	p := runPlan{mode: mode, topic: topic}
	switch mode {
	case types.ModeSentiment:
		focus, ok := assistant.ParseFocus(req.Focus)
		if !ok {
			return runPlan{}, fmt.Errorf("%w: %q", ErrInvalidRequest, req.Focus)
		}
		p.focus = focus
		p.profile = assistant.SentimentProfile()
		p.prompt = assistant.SentimentPrompt(topic, focus)
	default:
		p.profile = assistant.SummaryProfile()
		p.prompt = assistant.SummaryPrompt(topic)
	}
	return p, nil
}

// Summarize runs one assistant turn to completion and returns the brief.
// Returns ErrBusy if another run is in flight.
func (s *Summarizer) Summarize(ctx context.Context, req Request) (*types.Brief, error) {
	p, err := plan(req)
	if err != nil {
		return nil, err
	}

	if !s.mu.TryLock() {
		return nil, ErrBusy
	}
	defer s.mu.Unlock()

	started := time.Now()
	log.Printf("📰 Starting %s run for topic %q", p.mode, p.topic)

	assistantID, err := s.conv.EnsureAssistant(ctx, p.profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSummarization, err)
	}

	run, err := s.conv.StartRun(ctx, assistantID, p.prompt, p.profile.RunInstructions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSummarization, err)
	}

	text, articles, err := s.poll(ctx, run, p, req)
	if err != nil {
		log.Printf("❌ Run %s failed: %v", run.ID, err)
		return nil, err
	}

	brief := &types.Brief{
		ID:        uuid.New().String(),
		Mode:      p.mode,
		Topic:     p.topic,
		Focus:     p.focus,
		Text:      text,
		Articles:  articles,
		CreatedAt: time.Now().UTC(),
	}

	steps, err := s.conv.RunSteps(ctx, run.ThreadID, run.ID)
	if err != nil {
		log.Printf("⚠️  Could not list run steps for %s: %v", run.ID, err)
	} else {
		brief.Steps = steps
	}

	if p.mode == types.ModeSentiment {
		reading := sentiment.Parse(text)
		brief.Sentiment = &reading
	}
	brief.ElapsedMS = time.Since(started).Milliseconds()

	if s.opts.Sink != nil {
		if err := s.opts.Sink.Publish(ctx, brief); err != nil {
			log.Printf("⚠️  Failed to archive brief %s: %v", brief.ID, err)
		}
	}

	log.Printf("✅ Run %s completed in %dms with %d article(s)", run.ID, brief.ElapsedMS, len(articles))
	return brief, nil
}

// poll drives the run until it completes, fails or exhausts MaxPolls
func (s *Summarizer) poll(ctx context.Context, run assistant.Run, p runPlan, req Request) (string, []types.Article, error) {
	articles := []types.Article{}
	timer := time.NewTimer(s.opts.PollInterval)
	defer timer.Stop()

	for i := 0; i < s.opts.MaxPolls; i++ {
		if i > 0 {
			timer.Reset(s.opts.PollInterval)
		}
		if err := ctx.Err(); err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		select {
		case <-ctx.Done():
			return "", nil, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		case <-timer.C:
		}

		current, err := s.conv.GetRun(ctx, run.ThreadID, run.ID)
		if err != nil {
			if ctx.Err() != nil {
				return "", nil, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
			}
			return "", nil, fmt.Errorf("%w: %w", ErrSummarization, err)
		}
		log.Printf("⏳ Run %s status: %s", run.ID, current.Status)

		switch {
		case current.Status.Pending():
			continue

		case current.Status == assistant.StatusRequiresAction:
			outputs, fetched, err := s.handleToolCalls(ctx, current.ToolCalls, p, req)
			if err != nil {
				return "", nil, err
			}
			articles = append(articles, fetched...)
			if _, err := s.conv.SubmitToolOutputs(ctx, run.ThreadID, run.ID, outputs); err != nil {
				return "", nil, fmt.Errorf("%w: %w", ErrSummarization, err)
			}

		case current.Status == assistant.StatusCompleted:
			text, err := s.conv.FinalMessage(ctx, run.ThreadID, run.ID)
			if err != nil {
				return "", nil, fmt.Errorf("%w: %w", ErrSummarization, err)
			}
			text = strings.TrimSpace(text)
			if text == "" {
				if len(articles) == 0 {
					return NoDataSummary, articles, nil
				}
				return "", nil, fmt.Errorf("%w: assistant returned an empty message", ErrSummarization)
			}
			return text, articles, nil

		default:
			reason := current.LastError
			if reason == "" {
				reason = "no error details"
			}
			return "", nil, fmt.Errorf("%w: run ended with status %s: %s", ErrSummarization, current.Status, reason)
		}
	}

	return "", nil, fmt.Errorf("%w after %d polls", ErrRunTimeout, s.opts.MaxPolls)
}

type toolArgs struct {
	Topic    string `json:"topic"`
	PageSize int    `json:"page_size"`
}

// handleToolCalls serves every requested function call of one requires_action step
func (s *Summarizer) handleToolCalls(ctx context.Context, calls []assistant.ToolCall, p runPlan, req Request) ([]assistant.ToolOutput, []types.Article, error) {
	if len(calls) == 0 {
		return nil, nil, fmt.Errorf("%w: run requires action but has no tool calls", ErrSummarization)
	}

	var outputs []assistant.ToolOutput
	var fetched []types.Article
	for _, call := range calls {
		if call.Name != p.profile.FunctionName {
			return nil, nil, fmt.Errorf("%w: unknown function %q", ErrSummarization, call.Name)
		}

		var args toolArgs
		if strings.TrimSpace(call.Arguments) != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				log.Printf("⚠️  Could not decode arguments for %s: %v", call.Name, err)
			}
		}
		topic := strings.TrimSpace(args.Topic)
		if topic == "" {
			topic = p.topic
		}

		q := s.query(p.mode, topic, args.PageSize, req.PageSize)
		log.Printf("🔎 %s(%q) requested %d article(s)", call.Name, topic, q.PageSize)

		articles, err := s.fetcher.Fetch(ctx, q)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrFetchArticles, err)
		}

		output, err := news.FormatToolOutput(topic, articles)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrSummarization, err)
		}
		outputs = append(outputs, assistant.ToolOutput{ToolCallID: call.ID, Output: output})
		fetched = append(fetched, articles...)
	}
	return outputs, fetched, nil
}

// query resolves the page size and language for a fetch.
// Summaries always use the default page size; sentiment runs take the
// assistant's choice, then the caller's, clamped to the allowed range.
func (s *Summarizer) query(mode types.Mode, topic string, argSize, reqSize int) news.Query {
	q := news.Query{Topic: topic, PageSize: news.DefaultPageSize, Language: s.opts.Language}
	if mode != types.ModeSentiment {
		return q
	}

	size := argSize
	if size <= 0 {
		size = reqSize
	}
	if size <= 0 {
		size = DefaultSentimentPageSize
	}
	q.PageSize = min(max(size, minSentimentPageSize), news.MaxPageSize)
	q.Language = sentimentLanguage
	return q
}

// IsClientError reports whether err was caused by the request itself
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyTopic) || errors.Is(err, ErrInvalidRequest)
}
