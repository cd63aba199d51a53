package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"newsbrief/assistant"
	"newsbrief/news"
	"newsbrief/types"
)

// fakeConversation replays a scripted run. Each GetRun pops the next status;
// the final message echoes the titles of every submitted tool output.
type fakeConversation struct {
	mu sync.Mutex

	statuses  []assistant.Run
	finalText *string
	stepsErr  error

	profiles     []assistant.Profile
	prompts      []string
	instructions []string
	submitted    []assistant.ToolOutput
	polls        int

	// block, when set, holds GetRun until closed
	block chan struct{}
}

func (f *fakeConversation) EnsureAssistant(ctx context.Context, p assistant.Profile) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles = append(f.profiles, p)
	return "asst_" + p.FunctionName, nil
}

func (f *fakeConversation) StartRun(ctx context.Context, assistantID, userMessage, runInstructions string) (assistant.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, userMessage)
	f.instructions = append(f.instructions, runInstructions)
	return assistant.Run{ID: "run_1", ThreadID: "thread_1", Status: assistant.StatusQueued}, nil
}

func (f *fakeConversation) GetRun(ctx context.Context, threadID, runID string) (assistant.Run, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if len(f.statuses) == 0 {
		return assistant.Run{ID: runID, ThreadID: threadID, Status: assistant.StatusInProgress}, nil
	}
	next := f.statuses[0]
	f.statuses = f.statuses[1:]
	next.ID, next.ThreadID = runID, threadID
	return next, nil
}

func (f *fakeConversation) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []assistant.ToolOutput) (assistant.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, outputs...)
	return assistant.Run{ID: runID, ThreadID: threadID, Status: assistant.StatusQueued}, nil
}

func (f *fakeConversation) FinalMessage(ctx context.Context, threadID, runID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finalText != nil {
		return *f.finalText, nil
	}

	var titles []string
	for _, o := range f.submitted {
		var payload struct {
			Articles []struct {
				Title string `json:"title"`
			} `json:"articles"`
		}
		if err := json.Unmarshal([]byte(o.Output), &payload); err != nil {
			return "", err
		}
		for _, a := range payload.Articles {
			titles = append(titles, a.Title)
		}
	}
	return "Summary: " + strings.Join(titles, "; "), nil
}

func (f *fakeConversation) RunSteps(ctx context.Context, threadID, runID string) ([]types.RunStep, error) {
	if f.stepsErr != nil {
		return nil, f.stepsErr
	}
	return []types.RunStep{{ID: "step_1", Type: "tool_calls", Status: "completed"}}, nil
}

type fakeFetcher struct {
	mu       sync.Mutex
	articles []types.Article
	err      error
	queries  []news.Query
}

func (f *fakeFetcher) Fetch(ctx context.Context, q news.Query) ([]types.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

type recordingSink struct {
	briefs []*types.Brief
	err    error
}

func (r *recordingSink) Publish(ctx context.Context, b *types.Brief) error {
	r.briefs = append(r.briefs, b)
	return r.err
}

func requiresAction(calls ...assistant.ToolCall) assistant.Run {
	return assistant.Run{Status: assistant.StatusRequiresAction, ToolCalls: calls}
}

func status(s assistant.RunStatus) assistant.Run {
	return assistant.Run{Status: s}
}

func getNews(id, args string) assistant.ToolCall {
	return assistant.ToolCall{ID: id, Name: assistant.SummaryFunction, Arguments: args}
}

func testOptions() Options {
	return Options{PollInterval: time.Millisecond, MaxPolls: 10}
}

func strPtr(s string) *string { return &s }

func threeArticles() []types.Article {
	return []types.Article{
		{Title: "Go 1.24 released", Source: "Go Blog", URL: "https://go.dev/blog/go1.24"},
		{Title: "Generics turn three", Source: "Gopher Weekly", URL: "https://example.com/generics"},
		{Title: "New gopher plush", Source: "Swag News", URL: "https://example.com/plush"},
	}
}

func TestSummarizeEchoesAllTitles(t *testing.T) {
	conv := &fakeConversation{statuses: []assistant.Run{
		status(assistant.StatusQueued),
		status(assistant.StatusInProgress),
		requiresAction(getNews("call_1", `{"topic":"golang"}`)),
		status(assistant.StatusInProgress),
		status(assistant.StatusCompleted),
	}}
	fetcher := &fakeFetcher{articles: threeArticles()}
	sink := &recordingSink{}
	opts := testOptions()
	opts.Sink = sink

	brief, err := New(conv, fetcher, opts).Summarize(context.Background(), Request{Topic: "  golang "})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	for _, a := range threeArticles() {
		if !strings.Contains(brief.Text, a.Title) {
			t.Errorf("summary %q missing title %q", brief.Text, a.Title)
		}
	}
	if brief.Mode != types.ModeSummary || brief.Topic != "golang" || brief.ID == "" {
		t.Errorf("unexpected brief header %+v", brief)
	}
	if len(brief.Articles) != 3 || len(brief.Steps) != 1 || brief.Sentiment != nil {
		t.Errorf("unexpected brief body %+v", brief)
	}

	if conv.prompts[0] != "summarize the news on this topic golang?" || conv.instructions[0] != "Summarize the news" {
		t.Errorf("unexpected prompt %q / %q", conv.prompts[0], conv.instructions[0])
	}
	if len(fetcher.queries) != 1 || fetcher.queries[0].PageSize != news.DefaultPageSize || fetcher.queries[0].Topic != "golang" {
		t.Errorf("unexpected fetch queries %+v", fetcher.queries)
	}
	if len(conv.submitted) != 1 || conv.submitted[0].ToolCallID != "call_1" {
		t.Errorf("unexpected tool outputs %+v", conv.submitted)
	}
	if len(sink.briefs) != 1 || sink.briefs[0] != brief {
		t.Errorf("brief should be published once")
	}
}

func TestSummarizeZeroArticles(t *testing.T) {
	conv := &fakeConversation{
		statuses: []assistant.Run{
			requiresAction(getNews("call_1", `{"topic":"zzzz"}`)),
			status(assistant.StatusCompleted),
		},
		finalText: strPtr("   "),
	}
	fetcher := &fakeFetcher{articles: []types.Article{}}

	brief, err := New(conv, fetcher, testOptions()).Summarize(context.Background(), Request{Topic: "zzzz"})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if brief.Text != NoDataSummary {
		t.Errorf("Text = %q; want no-data summary", brief.Text)
	}
	if brief.Articles == nil || len(brief.Articles) != 0 {
		t.Errorf("Articles = %v; want empty", brief.Articles)
	}

	var payload struct {
		Note string `json:"note"`
	}
	if err := json.Unmarshal([]byte(conv.submitted[0].Output), &payload); err != nil || payload.Note != news.NoArticlesNote {
		t.Errorf("tool output should carry the no-articles note, got %q (%v)", conv.submitted[0].Output, err)
	}
}

func TestSummarizeEmptyMessageWithArticlesFails(t *testing.T) {
	conv := &fakeConversation{
		statuses: []assistant.Run{
			requiresAction(getNews("call_1", `{"topic":"go"}`)),
			status(assistant.StatusCompleted),
		},
		finalText: strPtr(""),
	}

	_, err := New(conv, &fakeFetcher{articles: threeArticles()}, testOptions()).Summarize(context.Background(), Request{Topic: "go"})
	if !errors.Is(err, ErrSummarization) {
		t.Fatalf("expected ErrSummarization, got %v", err)
	}
}

func TestSummarizeTimeout(t *testing.T) {
	conv := &fakeConversation{}
	opts := testOptions()
	opts.MaxPolls = 3

	_, err := New(conv, &fakeFetcher{}, opts).Summarize(context.Background(), Request{Topic: "go"})
	if !errors.Is(err, ErrRunTimeout) {
		t.Fatalf("expected ErrRunTimeout, got %v", err)
	}
	if conv.polls != 3 {
		t.Errorf("polled %d times; want 3", conv.polls)
	}
}

func TestSummarizeTerminalFailures(t *testing.T) {
	for _, s := range []assistant.RunStatus{
		assistant.StatusFailed,
		assistant.StatusExpired,
		assistant.StatusCancelled,
		assistant.StatusIncomplete,
		assistant.StatusCancelling,
	} {
		t.Run(string(s), func(t *testing.T) {
			conv := &fakeConversation{statuses: []assistant.Run{
				{Status: s, LastError: "rate limit exceeded"},
			}}
			_, err := New(conv, &fakeFetcher{}, testOptions()).Summarize(context.Background(), Request{Topic: "go"})
			if !errors.Is(err, ErrSummarization) {
				t.Fatalf("expected ErrSummarization, got %v", err)
			}
			if !strings.Contains(err.Error(), "rate limit exceeded") {
				t.Errorf("error %q should carry the upstream reason", err)
			}
		})
	}
}

func TestSummarizeUnknownFunction(t *testing.T) {
	conv := &fakeConversation{statuses: []assistant.Run{
		requiresAction(assistant.ToolCall{ID: "call_1", Name: "launch_rockets", Arguments: `{}`}),
	}}
	fetcher := &fakeFetcher{}

	_, err := New(conv, fetcher, testOptions()).Summarize(context.Background(), Request{Topic: "go"})
	if !errors.Is(err, ErrSummarization) {
		t.Fatalf("expected ErrSummarization, got %v", err)
	}
	if len(fetcher.queries) != 0 || len(conv.submitted) != 0 {
		t.Errorf("unknown function must not fetch or submit")
	}
}

func TestSummarizeFetchError(t *testing.T) {
	conv := &fakeConversation{statuses: []assistant.Run{
		requiresAction(getNews("call_1", `{"topic":"go"}`)),
	}}
	fetcher := &fakeFetcher{err: news.ErrFetch}

	_, err := New(conv, fetcher, testOptions()).Summarize(context.Background(), Request{Topic: "go"})
	if !errors.Is(err, ErrFetchArticles) || !errors.Is(err, news.ErrFetch) {
		t.Fatalf("expected ErrFetchArticles wrapping news.ErrFetch, got %v", err)
	}
	if UserMessage(err) != UserMessage(ErrFetchArticles) {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
}

func TestSummarizeServesRepeatedFetchCalls(t *testing.T) {
	conv := &fakeConversation{statuses: []assistant.Run{
		requiresAction(getNews("call_1", `{"topic":"go"}`), getNews("call_2", `not json`)),
		requiresAction(getNews("call_3", `{"topic":"rust"}`)),
		status(assistant.StatusCompleted),
	}}
	fetcher := &fakeFetcher{articles: threeArticles()[:1]}

	brief, err := New(conv, fetcher, testOptions()).Summarize(context.Background(), Request{Topic: "go"})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(conv.submitted) != 3 || len(fetcher.queries) != 3 {
		t.Fatalf("expected 3 calls served, got %d outputs / %d fetches", len(conv.submitted), len(fetcher.queries))
	}
	if fetcher.queries[1].Topic != "go" {
		t.Errorf("undecodable arguments should fall back to the user topic, got %q", fetcher.queries[1].Topic)
	}
	if fetcher.queries[2].Topic != "rust" {
		t.Errorf("assistant topic should be used, got %q", fetcher.queries[2].Topic)
	}
	if len(brief.Articles) != 3 {
		t.Errorf("articles from every call should be kept, got %d", len(brief.Articles))
	}
}

func TestSummarizeSentimentMode(t *testing.T) {
	conv := &fakeConversation{
		statuses: []assistant.Run{
			requiresAction(assistant.ToolCall{ID: "call_1", Name: assistant.SentimentFunction, Arguments: `{"topic":"tesla","page_size":50}`}),
			status(assistant.StatusCompleted),
		},
		finalText: strPtr("Overall the coverage is moderately negative."),
	}
	fetcher := &fakeFetcher{articles: threeArticles()}

	brief, err := New(conv, fetcher, testOptions()).Summarize(context.Background(), Request{
		Topic: "tesla", Mode: types.ModeSentiment, Focus: "market sentiment",
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if brief.Mode != types.ModeSentiment || brief.Focus != assistant.FocusMarket {
		t.Errorf("unexpected brief header %+v", brief)
	}
	if brief.Sentiment == nil || brief.Sentiment.Score != -0.5 || brief.Sentiment.Category != "Negative" {
		t.Errorf("unexpected sentiment %+v", brief.Sentiment)
	}
	if conv.profiles[0].FunctionName != assistant.SentimentFunction {
		t.Errorf("sentiment profile should be used, got %q", conv.profiles[0].FunctionName)
	}
	if !strings.Contains(conv.prompts[0], "focus on market sentiment") {
		t.Errorf("prompt should carry the focus: %q", conv.prompts[0])
	}
	q := fetcher.queries[0]
	if q.PageSize != news.MaxPageSize || q.Language != "en" {
		t.Errorf("unexpected sentiment query %+v", q)
	}
}

func TestSentimentPageSize(t *testing.T) {
	s := New(&fakeConversation{}, &fakeFetcher{}, testOptions())
	cases := []struct {
		argSize, reqSize, want int
	}{
		{0, 0, DefaultSentimentPageSize},
		{0, 7, 7},
		{12, 7, 12},
		{2, 0, 5},
		{99, 0, news.MaxPageSize},
	}
	for _, c := range cases {
		if got := s.query(types.ModeSentiment, "t", c.argSize, c.reqSize).PageSize; got != c.want {
			t.Errorf("query(arg=%d, req=%d).PageSize = %d; want %d", c.argSize, c.reqSize, got, c.want)
		}
	}
	if got := s.query(types.ModeSummary, "t", 12, 7).PageSize; got != news.DefaultPageSize {
		t.Errorf("summary page size = %d; want %d", got, news.DefaultPageSize)
	}
}

func TestSummarizeValidation(t *testing.T) {
	s := New(&fakeConversation{}, &fakeFetcher{}, testOptions())
	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"empty topic", Request{Topic: "   "}, ErrEmptyTopic},
		{"unknown mode", Request{Topic: "go", Mode: "poetry"}, ErrInvalidRequest},
		{"unknown focus", Request{Topic: "go", Mode: types.ModeSentiment, Focus: "vibes"}, ErrInvalidRequest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := s.Summarize(context.Background(), c.req)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			if !IsClientError(err) {
				t.Errorf("%v should be a client error", err)
			}
		})
	}
}

func TestSummarizeBusy(t *testing.T) {
	conv := &fakeConversation{
		statuses: []assistant.Run{status(assistant.StatusCompleted)},
		block:    make(chan struct{}),
	}
	s := New(conv, &fakeFetcher{}, testOptions())

	done := make(chan error, 1)
	go func() {
		_, err := s.Summarize(context.Background(), Request{Topic: "go"})
		done <- err
	}()

	// Wait until the first run holds the lock
	deadline := time.Now().Add(2 * time.Second)
	for {
		conv.mu.Lock()
		started := len(conv.prompts) > 0
		conv.mu.Unlock()
		if started {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first run never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := s.Summarize(context.Background(), Request{Topic: "rust"}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(conv.block)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
}

func TestSummarizeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeConversation{}, &fakeFetcher{}, testOptions()).Summarize(ctx, Request{Topic: "go"})
	if !errors.Is(err, context.Canceled) || !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected a cancelled run, got %v", err)
	}
	if code := ErrorCode(err); code != CodeCancelled {
		t.Errorf("ErrorCode = %q; want %q", code, CodeCancelled)
	}
	if msg := UserMessage(err); msg != "The request was cancelled before the summary finished." {
		t.Errorf("UserMessage = %q", msg)
	}
}

func TestSummarizeSurvivesSinkAndStepFailures(t *testing.T) {
	conv := &fakeConversation{
		statuses:  []assistant.Run{status(assistant.StatusCompleted)},
		finalText: strPtr("All quiet."),
		stepsErr:  errors.New("steps unavailable"),
	}
	opts := testOptions()
	opts.Sink = &recordingSink{err: errors.New("bucket gone")}

	brief, err := New(conv, &fakeFetcher{}, opts).Summarize(context.Background(), Request{Topic: "go"})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if brief.Text != "All quiet." || brief.Steps != nil {
		t.Errorf("unexpected brief %+v", brief)
	}
}
