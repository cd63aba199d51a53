package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"newsbrief/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// RSSClient searches a news RSS endpoint such as Google News search
type RSSClient struct {
	searchURL string
	parser    *gofeed.Parser
}

var _ Fetcher = (*RSSClient)(nil)

func NewRSSClient(searchURL string) *RSSClient {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 30 * time.Second}
	return &RSSClient{
		searchURL: searchURL,
		parser:    parser,
	}
}

func (c *RSSClient) Fetch(ctx context.Context, q Query) ([]types.Article, error) {
	q, err := q.normalize()
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(c.searchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid search url: %w", ErrFetch, err)
	}
	params := u.Query()
	params.Set("q", q.Topic)
	if q.Language != "" {
		params.Set("hl", q.Language)
	}
	u.RawQuery = params.Encode()

	feed, err := c.parser.ParseURLWithContext(u.String(), ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch feed: %w", ErrFetch, err)
	}

	items := feed.Items
	sort.SliceStable(items, func(i, j int) bool {
		return itemTime(items[i]).After(itemTime(items[j]))
	})

	count := min(len(items), q.PageSize)
	articles := make([]types.Article, 0, count)
	for _, item := range items[:count] {
		title, source := splitPublisher(item.Title)
		if source == "" && item.Author != nil {
			source = item.Author.Name
		}
		if source == "" {
			source = hostOf(item.Link)
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}

		id := item.GUID
		if id == "" {
			id = types.GenerateID(item.Link)
		}

		article := types.Article{
			ID:          id,
			Title:       title,
			Description: stripHTML(description),
			Source:      source,
			URL:         item.Link,
			PublishedAt: itemTime(item),
		}
		if item.Author != nil {
			article.Author = item.Author.Name
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

// splitPublisher separates the "Headline - Publisher" form used by news aggregators
func splitPublisher(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return strings.TrimSpace(title), ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// stripHTML returns the visible text of an HTML snippet. Feeds that escape
// their markup twice leave tags in the first pass, so those get a second one.
func stripHTML(s string) string {
	text := htmlText(s)
	if strings.ContainsAny(text, "<>") {
		text = htmlText(text)
	}
	return strings.Join(strings.Fields(text), " ")
}

func htmlText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}
