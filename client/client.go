package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"newsbrief/orchestrator"
	"newsbrief/types"
)

// DefaultBaseURL is the address of a locally running server
const DefaultBaseURL = "http://localhost:8080"

// Client calls a remote newsbrief server. It satisfies the same Summarize
// signature as orchestrator.Summarizer so front ends can use either.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Runs poll for minutes before they finish
		httpClient: &http.Client{Timeout: 10 * time.Minute},
	}
}

// Summarize posts the request to /api/summarize or /api/sentiment depending on its mode
func (c *Client) Summarize(ctx context.Context, req orchestrator.Request) (*types.Brief, error) {
	path := "/api/summarize"
	if req.Mode == types.ModeSentiment {
		path = "/api/sentiment"
	}

	var brief types.Brief
	if err := c.doJSONRequest(ctx, http.MethodPost, path, req, &brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

// Brief fetches an archived brief by ID
func (c *Client) Brief(ctx context.Context, id string) (*types.Brief, error) {
	var brief types.Brief
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/briefs/"+id, nil, &brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

// Health returns nil when the server answers its health check
func (c *Client) Health(ctx context.Context) error {
	var status map[string]string
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/health", nil, &status); err != nil {
		return err
	}
	if status["status"] != "ok" {
		return fmt.Errorf("server reported status %q", status["status"])
	}
	return nil
}
