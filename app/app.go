// Package app wires configuration into a ready-to-use summarizer.
package app

import (
	"context"
	"fmt"
	"log"

	"newsbrief/archive"
	"newsbrief/assistant"
	"newsbrief/config"
	"newsbrief/news"
	"newsbrief/orchestrator"
)

// App holds the long-lived components shared by the front ends
type App struct {
	Summarizer *orchestrator.Summarizer

	// Briefs is nil unless the S3 archive is configured
	Briefs archive.Loader

	sinks archive.Fanout
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	fetcher, err := news.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create news fetcher: %w", err)
	}
	log.Printf("🗞️  News provider: %s", cfg.NewsProvider)

	conv := assistant.NewOpenAI(assistant.Options{
		APIKey:             cfg.OpenAIKey,
		Model:              cfg.OpenAIModel,
		BaseURL:            cfg.OpenAIBaseURL,
		SummaryAssistantID: cfg.AssistantID,
	})

	sinks, s3Sink := archive.FromConfig(ctx, cfg)

	opts := orchestrator.OptionsFromConfig(cfg)
	if len(sinks) > 0 {
		opts.Sink = sinks
	}

	a := &App{
		Summarizer: orchestrator.New(conv, fetcher, opts),
		sinks:      sinks,
	}
	if s3Sink != nil {
		a.Briefs = s3Sink
	}
	return a, nil
}

// Close releases the archive sinks
func (a *App) Close() error {
	return a.sinks.Close()
}
