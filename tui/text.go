package tui

// UI Text Constants
const (
	TextTitle       = "📰 News Summarizer"
	TextPlaceholder = "e.g., artificial intelligence, bitcoin, climate change"

	TextRunningSummary   = "Fetching news and summarizing..."
	TextRunningSentiment = "Fetching news and analyzing sentiment..."

	// Footer
	TextFooterIdle      = "Enter to run | Tab to switch mode | Esc or Ctrl+C to quit"
	TextFooterSentiment = "Enter to run | Tab to switch mode | Shift+Tab to change focus | Esc or Ctrl+C to quit"
	TextFooterRunning   = "Esc or Ctrl+C to quit"
)
