package tui

import (
	"fmt"
	"strings"

	"newsbrief/orchestrator"
	"newsbrief/types"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(TextTitle))
	b.WriteString("\n")

	b.WriteString(m.modeLine())
	b.WriteString("\n\n")
	b.WriteString(m.Input.View())
	b.WriteString("\n\n")

	switch m.State {
	case StateRunning:
		text := TextRunningSummary
		if m.Mode == types.ModeSentiment {
			text = TextRunningSentiment
		}
		b.WriteString(m.Spinner.View() + " " + StatusStyle.Render(text))
		b.WriteString("\n\n")
	case StateError:
		b.WriteString(ErrorBannerStyle.Render("❌ " + orchestrator.UserMessage(m.Err)))
		b.WriteString("\n\n")
	case StateComplete:
		if m.Brief != nil {
			b.WriteString(m.boxStyle().Render(m.formatBrief()))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(InfoStyle.Render(m.footer()))
	return b.String()
}

func (m Model) modeLine() string {
	line := "Mode: " + HighlightStyle.Render(string(m.Mode))
	if m.Mode == types.ModeSentiment {
		line += "  Focus: " + HighlightStyle.Render(m.Focus())
	}
	return line
}

func (m Model) footer() string {
	switch {
	case m.State == StateRunning:
		return TextFooterRunning
	case m.Mode == types.ModeSentiment:
		return TextFooterSentiment
	default:
		return TextFooterIdle
	}
}

func (m Model) boxStyle() lipgloss.Style {
	if m.width > 10 {
		return BoxStyle.Width(m.width - 4)
	}
	return BoxStyle
}

// formatBrief formats the completed brief for display
func (m Model) formatBrief() string {
	brief := m.Brief
	var b strings.Builder

	b.WriteString(HighlightStyle.Render(brief.Topic))
	b.WriteString("\n\n")

	if s := brief.Sentiment; s != nil {
		b.WriteString(StatusStyle.Render(fmt.Sprintf("Sentiment: %s (%.1f, confidence %d%%)", s.Category, s.Score, s.Confidence)))
		b.WriteString("\n\n")
	}

	b.WriteString(brief.Text)
	b.WriteString("\n")

	if len(brief.Articles) > 0 {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("📊 Sources (%d):", len(brief.Articles))))
		b.WriteString("\n")
		for _, a := range brief.Articles {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("   %s (%s)", a.Title, a.Source)))
			b.WriteString("\n")
		}
	}

	if len(brief.Steps) > 0 {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("\n%d run step(s) in %dms", len(brief.Steps), brief.ElapsedMS)))
	}
	return b.String()
}
