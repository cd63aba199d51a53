package news

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"newsbrief/types"

	readability "github.com/go-shiori/go-readability"
)

const (
	WorkerCount      = 5
	extractorTimeout = 30 * time.Second

	// maxContentChars keeps tool output within a sensible prompt size
	maxContentChars = 4000
)

// ContentExtractor wraps a Fetcher and fills each article's Content with the
// readable text of its page. Extraction failures are logged and skipped.
type ContentExtractor struct {
	next    Fetcher
	extract func(articleURL string) (string, error)
}

var _ Fetcher = (*ContentExtractor)(nil)

func NewContentExtractor(next Fetcher) *ContentExtractor {
	return &ContentExtractor{
		next:    next,
		extract: extractText,
	}
}

func (e *ContentExtractor) Fetch(ctx context.Context, q Query) ([]types.Article, error) {
	articles, err := e.next.Fetch(ctx, q)
	if err != nil || len(articles) == 0 {
		return articles, err
	}

	var wg sync.WaitGroup
	jobs := make(chan int, len(articles))

	for i := 0; i < min(WorkerCount, len(articles)); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				article := &articles[idx]
				text, err := e.extract(article.URL)
				if err != nil {
					log.Printf("[Worker %d] Failed to extract %s: %v", workerID, article.URL, err)
					continue
				}
				article.Content = truncate(text, maxContentChars)
			}
		}(i)
	}

	for i := range articles {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return articles, nil
}

func extractText(articleURL string) (string, error) {
	if articleURL == "" {
		return "", fmt.Errorf("article URL is empty")
	}

	extracted, err := readability.FromURL(articleURL, extractorTimeout)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}
	return strings.TrimSpace(extracted.TextContent), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
