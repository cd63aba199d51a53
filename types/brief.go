package types

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects which assistant profile produces a brief
type Mode string

const (
	ModeSummary   Mode = "summary"
	ModeSentiment Mode = "sentiment"
)

// ParseMode resolves a user supplied mode name. Empty defaults to summary.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSummary:
		return ModeSummary, nil
	case ModeSentiment:
		return ModeSentiment, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// RunStep is a debug record of one step the assistant took during a run
type RunStep struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// Sentiment is the structured reading extracted from a sentiment brief
type Sentiment struct {
	Score      float64 `json:"score"`
	Category   string  `json:"category"`
	Confidence int     `json:"confidence"`
}

// Brief is the outcome of one user-triggered run
type Brief struct {
	ID        string     `json:"id"`
	Mode      Mode       `json:"mode"`
	Topic     string     `json:"topic"`
	Focus     string     `json:"focus,omitempty"`
	Text      string     `json:"text"`
	Articles  []Article  `json:"articles"`
	Steps     []RunStep  `json:"steps,omitempty"`
	Sentiment *Sentiment `json:"sentiment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ElapsedMS int64      `json:"elapsed_ms"`
}
