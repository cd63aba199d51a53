package config

import "time"

// News provider names accepted by NEWS_PROVIDER
const (
	ProviderNewsAPI = "newsapi"
	ProviderRSS     = "rss"
)

// Default configuration values
const (
	// DefaultModel is the chat model the assistants are created with
	DefaultModel = "gpt-3.5-turbo"

	// DefaultNewsProvider is used when NEWS_PROVIDER is unset
	DefaultNewsProvider = ProviderNewsAPI

	// DefaultNewsAPIURL is the NewsAPI host; requests go to /v2/everything
	DefaultNewsAPIURL = "https://newsapi.org"

	// DefaultRSSURL is the Google News search feed
	DefaultRSSURL = "https://news.google.com/rss/search"

	// DefaultPollInterval is the wait between run status checks
	DefaultPollInterval = 5 * time.Second

	// DefaultMaxPolls bounds how long a run may stay queued or in progress
	DefaultMaxPolls = 60

	// DefaultPort is the HTTP port for the web server
	DefaultPort = "8080"

	// DefaultKafkaTopic receives one event per completed brief
	DefaultKafkaTopic = "news-briefs"
)
