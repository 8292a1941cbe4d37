package openrouter

import (
	"errors"
	"log/slog"
	"os"

	"github.com/revrost/go-openrouter"

	"github.com/joseph-ayodele/signloop/internal/common"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Config for the OpenRouter client.
type Config struct {
	APIKey  string // if empty, falls back to env OPENROUTER_API_KEY
	BaseURL string // default https://openrouter.ai/api/v1
	AppURL  string // sent as HTTP-Referer for attribution
	AppName string // sent as X-Title
}

// ConfigFrom adapts the env-level LLM settings.
func ConfigFrom(c common.LLMConfig) Config {
	return Config{
		APIKey:  c.OpenRouterAPIKey,
		BaseURL: c.OpenRouterBaseURL,
		AppURL:  c.AppURL,
		AppName: c.AppName,
	}
}

type Client struct {
	cfg Config
	or  *openrouter.Client
	log *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AppName == "" {
		cfg.AppName = "SignLoop"
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []openrouter.Option{
		openrouter.WithXTitle(cfg.AppName),
		func(oc *openrouter.ClientConfig) { oc.BaseURL = cfg.BaseURL },
	}
	if cfg.AppURL != "" {
		opts = append(opts, openrouter.WithHTTPReferer(cfg.AppURL))
	}
	return &Client{
		cfg: cfg,
		or:  openrouter.NewClient(cfg.APIKey, opts...),
		log: logger,
	}, nil
}
