package news

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsbrief/config"
	"newsbrief/types"
)

var (
	// ErrFetch marks any failure talking to the news-search backend
	ErrFetch = errors.New("could not fetch articles")

	// ErrEmptyTopic is returned before any I/O when the topic is blank
	ErrEmptyTopic = errors.New("topic is empty")
)

const (
	// DefaultPageSize is the article count requested for a summary
	DefaultPageSize = 5

	// MaxPageSize caps caller supplied page sizes
	MaxPageSize = 20
)

// Query describes one news search
type Query struct {
	Topic    string
	PageSize int
	Language string
}

// normalize trims the topic and clamps the page size into [1, MaxPageSize]
func (q Query) normalize() (Query, error) {
	q.Topic = strings.TrimSpace(q.Topic)
	if q.Topic == "" {
		return q, ErrEmptyTopic
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q, nil
}

// Fetcher searches for recent articles about a topic
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]types.Article, error)
}

// New builds the fetcher selected by the configuration
func New(cfg *config.Config) (Fetcher, error) {
	var f Fetcher
	switch cfg.NewsProvider {
	case config.ProviderNewsAPI:
		f = NewNewsAPIClient(cfg.NewsAPIURL, cfg.NewsAPIKey)
	case config.ProviderRSS:
		f = NewRSSClient(cfg.NewsRSSURL)
	default:
		return nil, fmt.Errorf("unknown news provider %q", cfg.NewsProvider)
	}

	if cfg.ExtractContent {
		f = NewContentExtractor(f)
	}
	return f, nil
}
