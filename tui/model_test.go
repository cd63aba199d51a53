package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"newsbrief/assistant"
	"newsbrief/orchestrator"
	"newsbrief/types"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeRunner struct {
	brief *types.Brief
	err   error
	reqs  []orchestrator.Request
}

func (f *fakeRunner) Summarize(ctx context.Context, req orchestrator.Request) (*types.Brief, error) {
	f.reqs = append(f.reqs, req)
	return f.brief, f.err
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(Model), cmd
}

// runCmd executes cmd and any batched commands, returning the first BriefMsg
func runCmd(t *testing.T, cmd tea.Cmd) BriefMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	switch msg := cmd().(type) {
	case BriefMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if brief, ok := c().(BriefMsg); ok {
				return brief
			}
		}
	}
	t.Fatal("command produced no BriefMsg")
	return BriefMsg{}
}

func TestEnterRunsSummary(t *testing.T) {
	runner := &fakeRunner{brief: &types.Brief{
		Topic:    "golang",
		Text:     "Go 1.24 shipped.",
		Articles: []types.Article{{Title: "Go 1.24 released", Source: "Go Blog"}},
	}}
	m := NewModel(context.Background(), runner, "")
	m.Input.SetValue("golang")

	m, cmd := press(m, tea.KeyEnter)
	if m.State != StateRunning {
		t.Fatalf("State = %s; want running", m.State)
	}
	if !strings.Contains(m.View(), TextRunningSummary) {
		t.Errorf("running view should show progress")
	}

	// Keys other than quit are ignored while running
	if again, cmd := press(m, tea.KeyEnter); cmd != nil || again.State != StateRunning {
		t.Errorf("second Enter while running should be ignored")
	}

	msg := runCmd(t, cmd)
	next, _ := m.Update(msg)
	m = next.(Model)

	if m.State != StateComplete {
		t.Fatalf("State = %s; want complete", m.State)
	}
	if len(runner.reqs) != 1 || runner.reqs[0] != (orchestrator.Request{Topic: "golang", Mode: types.ModeSummary}) {
		t.Errorf("unexpected requests %+v", runner.reqs)
	}
	view := m.View()
	for _, want := range []string{"Go 1.24 shipped.", "Go 1.24 released"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEnterWithEmptyTopicShowsBanner(t *testing.T) {
	runner := &fakeRunner{}
	m := NewModel(context.Background(), runner, types.ModeSummary)
	m.Input.SetValue("   ")

	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Errorf("no run should start for an empty topic")
	}
	if m.State != StateError || !errors.Is(m.Err, orchestrator.ErrEmptyTopic) {
		t.Fatalf("State = %s, Err = %v", m.State, m.Err)
	}
	if !strings.Contains(m.View(), "Please enter a topic to search for news.") {
		t.Errorf("view should show the empty topic banner")
	}
	if len(runner.reqs) != 0 {
		t.Errorf("runner should not be called")
	}
}

func TestRunErrorShowsBanner(t *testing.T) {
	m := NewModel(context.Background(), &fakeRunner{}, "")
	next, _ := m.Update(BriefMsg{Err: orchestrator.ErrRunTimeout})
	m = next.(Model)

	if m.State != StateError {
		t.Fatalf("State = %s; want error", m.State)
	}
	if !strings.Contains(m.View(), orchestrator.UserMessage(orchestrator.ErrRunTimeout)) {
		t.Errorf("view should show the timeout banner")
	}
}

func TestTabTogglesModeAndFocus(t *testing.T) {
	runner := &fakeRunner{brief: &types.Brief{Text: "ok"}}
	m := NewModel(context.Background(), runner, "")

	m, _ = press(m, tea.KeyTab)
	if m.Mode != types.ModeSentiment {
		t.Fatalf("Mode = %s; want sentiment", m.Mode)
	}
	if m.Focus() != assistant.FocusGeneral {
		t.Errorf("Focus = %s; want %s", m.Focus(), assistant.FocusGeneral)
	}

	m, _ = press(m, tea.KeyShiftTab)
	if m.Focus() != assistant.FocusMarket {
		t.Errorf("Focus = %s; want %s", m.Focus(), assistant.FocusMarket)
	}
	if !strings.Contains(m.View(), assistant.FocusMarket) {
		t.Errorf("view should show the selected focus")
	}

	m.Input.SetValue("tesla")
	_, cmd := press(m, tea.KeyEnter)
	runCmd(t, cmd)
	if runner.reqs[0].Mode != types.ModeSentiment || runner.reqs[0].Focus != assistant.FocusMarket {
		t.Errorf("unexpected request %+v", runner.reqs[0])
	}

	m, _ = press(m, tea.KeyTab)
	if m.Mode != types.ModeSummary {
		t.Errorf("Mode = %s; want summary", m.Mode)
	}
}

func TestQuitCancelsContext(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := NewModel(context.Background(), &fakeRunner{}, "")
		m, cmd := press(m, key)
		if cmd == nil {
			t.Fatalf("%v should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v should produce tea.QuitMsg", key)
		}
		if m.ctx.Err() == nil {
			t.Errorf("%v should cancel the run context", key)
		}
	}
}

func TestSentimentBriefView(t *testing.T) {
	m := NewModel(context.Background(), &fakeRunner{}, types.ModeSentiment)
	next, _ := m.Update(BriefMsg{Brief: &types.Brief{
		Topic:     "tesla",
		Mode:      types.ModeSentiment,
		Text:      "Moderately negative.",
		Sentiment: &types.Sentiment{Score: -0.5, Category: "Negative", Confidence: 85},
	}})
	view := next.(Model).View()
	if !strings.Contains(view, "Sentiment: Negative (-0.5, confidence 85%)") {
		t.Errorf("view missing sentiment line:\n%s", view)
	}
}
