package assistant

import (
	"fmt"
	"strings"
)

// Profile describes an assistant and the single function it may call
type Profile struct {
	Name                string
	Instructions        string
	Model               string
	FunctionName        string
	FunctionDescription string
	Parameters          map[string]any
	RunInstructions     string
}

const (
	SummaryFunction   = "get_news"
	SentimentFunction = "get_news_for_sentiment"
)

// SummaryProfile fetches news for a topic and summarizes it
func SummaryProfile() Profile {
	return Profile{
		Name:                "News Summarizer",
		Instructions:        "Get the list of articles/news for the given topic",
		FunctionName:        SummaryFunction,
		FunctionDescription: "Get the list of articles/news for the given topic",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic": map[string]any{
					"type":        "string",
					"description": "The topic for the news, e.g. bitcoin",
				},
			},
			"required": []string{"topic"},
		},
		RunInstructions: "Summarize the news",
	}
}

// SummaryPrompt is the user message that starts a summary run
func SummaryPrompt(topic string) string {
	return fmt.Sprintf("summarize the news on this topic %s?", topic)
}

// Analysis focus options for sentiment runs
const (
	FocusGeneral = "General Sentiment"
	FocusMarket  = "Market Sentiment"
	FocusPublic  = "Public Opinion"
	FocusBrand   = "Brand Perception"
)

// Focuses lists the accepted analysis focus values in display order
var Focuses = []string{FocusGeneral, FocusMarket, FocusPublic, FocusBrand}

// ParseFocus matches a focus case-insensitively. Empty selects FocusGeneral.
func ParseFocus(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FocusGeneral, true
	}
	for _, f := range Focuses {
		if strings.EqualFold(f, s) {
			return f, true
		}
	}
	return "", false
}

// SentimentProfile fetches news and scores its tone
func SentimentProfile() Profile {
	return Profile{
		Name: "News Sentiment Analyzer",
		Instructions: `You are an expert sentiment analysis assistant specializing in news content.

Your role is to:
1. Analyze the sentiment of news articles (positive, negative, neutral)
2. Provide sentiment scores on a scale of -1 to +1
3. Explain the reasoning behind your sentiment assessment
4. Identify key emotional triggers and language patterns
5. Summarize overall sentiment trends across multiple articles

Always provide structured analysis with:
- Overall sentiment score (-1 to +1)
- Sentiment category (Positive/Negative/Neutral)
- Confidence level (0-100%)
- Key themes and emotional indicators
- Brief explanation of your analysis

Be objective and consider context, tone, and implications.`,
		FunctionName:        SentimentFunction,
		FunctionDescription: "Fetch news articles for sentiment analysis on a given topic",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic": map[string]any{
					"type":        "string",
					"description": "The topic for news sentiment analysis, e.g. 'Tesla stock', 'climate change'",
				},
				"page_size": map[string]any{
					"type":        "integer",
					"description": "Number of articles to analyze (default: 10)",
					"default":     10,
				},
			},
			"required": []string{"topic"},
		},
		RunInstructions: "Perform comprehensive sentiment analysis",
	}
}

// SentimentPrompt is the user message that starts a sentiment run
func SentimentPrompt(topic, focus string) string {
	return fmt.Sprintf(`Please analyze the sentiment of news articles about '%s' with focus on %s.

Provide:
1. Overall sentiment score (-1 to +1)
2. Sentiment category (Positive/Negative/Neutral)
3. Confidence level (0-100%%)
4. Key themes and emotional indicators
5. Brief explanation of your analysis
6. Notable trends or patterns in the coverage`, topic, strings.ToLower(focus))
}
