package news

import (
	"encoding/json"
	"fmt"

	"newsbrief/types"
)

// NoArticlesNote tells the assistant the search came back empty
const NoArticlesNote = "No articles were found for this topic."

type toolArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at,omitempty"`
	Content     string `json:"content,omitempty"`
}

type toolPayload struct {
	Topic    string        `json:"topic"`
	Count    int           `json:"count"`
	Articles []toolArticle `json:"articles"`
	Note     string        `json:"note,omitempty"`
}

// FormatToolOutput renders fetched articles as the JSON string submitted back
// to the assistant as the function result
func FormatToolOutput(topic string, articles []types.Article) (string, error) {
	payload := toolPayload{
		Topic:    topic,
		Count:    len(articles),
		Articles: make([]toolArticle, 0, len(articles)),
	}
	for _, a := range articles {
		ta := toolArticle{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source,
			URL:         a.URL,
			Content:     a.Content,
		}
		if !a.PublishedAt.IsZero() {
			ta.PublishedAt = a.PublishedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		payload.Articles = append(payload.Articles, ta)
	}
	if len(articles) == 0 {
		payload.Note = NoArticlesNote
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode articles: %w", err)
	}
	return string(data), nil
}
