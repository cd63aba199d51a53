package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsbrief/types"
)

// NewsAPIClient queries the NewsAPI /v2/everything endpoint
type NewsAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Fetcher = (*NewsAPIClient)(nil)

func NewNewsAPIClient(baseURL, apiKey string) *NewsAPIClient {
	return &NewsAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			ID   *string `json:"id"`
			Name *string `json:"name"`
		} `json:"source"`
		Author      *string `json:"author"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		URL         *string `json:"url"`
		PublishedAt *string `json:"publishedAt"`
		Content     *string `json:"content"`
	} `json:"articles"`
}

// removedTitle is what NewsAPI puts in place of articles taken down by the publisher
const removedTitle = "[Removed]"

func (c *NewsAPIClient) Fetch(ctx context.Context, q Query) ([]types.Article, error) {
	q, err := q.normalize()
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(c.baseURL + "/v2/everything")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base url: %w", ErrFetch, err)
	}
	params := url.Values{}
	params.Set("q", q.Topic)
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("sortBy", "publishedAt")
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	params.Set("apiKey", c.apiKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrFetch, err)
	}

	var result newsAPIResponse
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && result.Message != "" {
			return nil, fmt.Errorf("%w: newsapi returned %d: %s", ErrFetch, resp.StatusCode, result.Message)
		}
		return nil, fmt.Errorf("%w: newsapi returned %d", ErrFetch, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrFetch, decodeErr)
	}
	if result.Status == "error" {
		return nil, fmt.Errorf("%w: newsapi error %s: %s", ErrFetch, result.Code, result.Message)
	}

	articles := make([]types.Article, 0, min(len(result.Articles), q.PageSize))
	for _, a := range result.Articles {
		if len(articles) == q.PageSize {
			break
		}
		title := deref(a.Title)
		if title == removedTitle {
			continue
		}

		link := deref(a.URL)
		article := types.Article{
			ID:          types.GenerateID(link),
			Title:       title,
			Description: deref(a.Description),
			Source:      deref(a.Source.Name),
			URL:         link,
			Author:      deref(a.Author),
			Content:     deref(a.Content),
		}
		if ts, err := time.Parse(time.RFC3339, deref(a.PublishedAt)); err == nil {
			article.PublishedAt = ts
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
