// Package sentiment turns a free-text sentiment analysis into a score and category.
package sentiment

import (
	"regexp"
	"strconv"
	"strings"

	"newsbrief/types"
)

const (
	Positive = "Positive"
	Negative = "Negative"
	Neutral  = "Neutral"

	// DefaultConfidence is reported when the text states no confidence level
	DefaultConfidence = 85

	// neutralBand is the score range around zero treated as Neutral
	neutralBand = 0.1
)

var (
	scorePattern      = regexp.MustCompile(`(?i)sentiment score\**\s*(?:\([^)]*\))?\s*\**\s*(?:[:=]|of|is)\s*\**\s*([-+]?\d+(?:\.\d+)?)`)
	categoryPattern   = regexp.MustCompile(`(?i)sentiment category\**\s*(?:\([^)]*\))?\s*\**\s*(?:[:=]|is)?\s*\**\s*(positive|negative|neutral)`)
	confidencePattern = regexp.MustCompile(`(?i)confidence(?: level)?\**\s*(?:\([^)]*\))?\s*\**\s*(?:[:=]|of|is)\s*\**\s*(\d{1,3})\s*%`)
)

// Parse reads a sentiment reply. Explicitly labelled values ("Sentiment Score: 0.4",
// "Sentiment Category: Negative", "Confidence Level: 70%") win; otherwise the
// keyword tiers decide.
func Parse(text string) types.Sentiment {
	reading := fromKeywords(text)

	if m := scorePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			reading.Score = clamp(v, -1, 1)
			reading.Category = categoryFor(reading.Score)
		}
	}

	if m := categoryPattern.FindStringSubmatch(text); m != nil {
		category := normalizeCategory(m[1])
		if category != reading.Category && scorePattern.FindStringSubmatch(text) == nil {
			reading.Score = baseline(category)
		}
		reading.Category = category
	}

	if m := confidencePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			reading.Confidence = int(clamp(float64(v), 0, 100))
		}
	}

	return reading
}

// fromKeywords grades the text by its strongest polarity phrase.
// "positive" is checked before "negative".
func fromKeywords(text string) types.Sentiment {
	lower := strings.ToLower(text)
	reading := types.Sentiment{Confidence: DefaultConfidence}

	switch {
	case strings.Contains(lower, "positive"):
		reading.Category = Positive
		reading.Score = tier(lower, "positive")
	case strings.Contains(lower, "negative"):
		reading.Category = Negative
		reading.Score = -tier(lower, "negative")
	default:
		reading.Category = Neutral
		reading.Score = 0
	}
	return reading
}

func tier(lower, word string) float64 {
	switch {
	case strings.Contains(lower, "very "+word), strings.Contains(lower, "highly "+word):
		return 0.8
	case strings.Contains(lower, "moderately "+word):
		return 0.5
	default:
		return 0.3
	}
}

func baseline(category string) float64 {
	switch category {
	case Positive:
		return 0.3
	case Negative:
		return -0.3
	}
	return 0
}

func categoryFor(score float64) string {
	switch {
	case score > neutralBand:
		return Positive
	case score < -neutralBand:
		return Negative
	}
	return Neutral
}

func normalizeCategory(s string) string {
	switch strings.ToLower(s) {
	case "positive":
		return Positive
	case "negative":
		return Negative
	}
	return Neutral
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
