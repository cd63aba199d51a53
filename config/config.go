package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// S3Config enables the optional brief archive. Bucket empty means disabled.
type S3Config struct {
	Bucket       string
	Region       string
	Profile      string
	Prefix       string
	UsePathStyle bool
}

// KafkaConfig enables the optional brief event stream. No brokers means disabled.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Config is everything read from the environment at process start
type Config struct {
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	AssistantID   string

	NewsProvider   string
	NewsAPIKey     string
	NewsAPIURL     string
	NewsRSSURL     string
	NewsLanguage   string
	ExtractContent bool

	PollInterval time.Duration
	MaxPolls     int

	Port string

	S3    S3Config
	Kafka KafkaConfig
}

// MissingError reports every required key that was not set
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing required configuration: " + strings.Join(e.Keys, ", ")
}

// Load reads .env if present (non-fatal if missing) and then the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from an arbitrary key lookup.
// Required: OPENAI_API_KEY, and NEWS_API_KEY when the provider is newsapi.
func FromLookup(getenv func(string) string) (*Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }
	getOr := func(key, defaultVal string) string {
		if v := get(key); v != "" {
			return v
		}
		return defaultVal
	}

	cfg := &Config{
		OpenAIKey:      get("OPENAI_API_KEY"),
		OpenAIModel:    getOr("OPENAI_MODEL", DefaultModel),
		OpenAIBaseURL:  get("OPENAI_BASE_URL"),
		AssistantID:    get("ASSISTANT_ID"),
		NewsProvider:   strings.ToLower(getOr("NEWS_PROVIDER", DefaultNewsProvider)),
		NewsAPIKey:     get("NEWS_API_KEY"),
		NewsAPIURL:     getOr("NEWS_API_URL", DefaultNewsAPIURL),
		NewsRSSURL:     getOr("NEWS_RSS_URL", DefaultRSSURL),
		NewsLanguage:   get("NEWS_LANGUAGE"),
		ExtractContent: parseBool(get("NEWS_EXTRACT_CONTENT")),
		PollInterval:   DefaultPollInterval,
		MaxPolls:       DefaultMaxPolls,
		Port:           getOr("PORT", DefaultPort),
		S3: S3Config{
			Bucket:       get("S3_BUCKET"),
			Region:       get("S3_REGION"),
			Profile:      get("S3_PROFILE"),
			UsePathStyle: parseBool(get("S3_USE_PATH_STYLE")),
		},
		Kafka: KafkaConfig{
			Topic: getOr("KAFKA_TOPIC", DefaultKafkaTopic),
		},
	}

	if v := get("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	if v := get("MAX_POLLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxPolls = n
		}
	}
	if prefix := get("S3_PREFIX"); prefix != "" {
		cfg.S3.Prefix = strings.Trim(prefix, "/") + "/"
	}
	for _, b := range strings.Split(get("KAFKA_BOOTSTRAP_SERVERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
		}
	}

	switch cfg.NewsProvider {
	case ProviderNewsAPI, ProviderRSS:
	default:
		return nil, fmt.Errorf("unknown NEWS_PROVIDER %q (want %s or %s)", cfg.NewsProvider, ProviderNewsAPI, ProviderRSS)
	}

	var missing []string
	if cfg.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if cfg.NewsProvider == ProviderNewsAPI && cfg.NewsAPIKey == "" {
		missing = append(missing, "NEWS_API_KEY")
	}
	if len(missing) > 0 {
		return nil, &MissingError{Keys: missing}
	}

	return cfg, nil
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
