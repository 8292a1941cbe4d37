// Package gemini is the alternate llm.Invoker backed by Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/joseph-ayodele/signloop/internal/common"
)

const providerName = "gemini"

type Config struct {
	APIKey  string
	BaseURL string // GEMINI_BASE_URL; empty keeps the SDK default
}

func ConfigFrom(c common.LLMConfig) Config {
	return Config{APIKey: c.GoogleAPIKey, BaseURL: c.GeminiBaseURL}
}

type Client struct {
	client *genai.Client
	log    *slog.Logger
}

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: missing GOOGLE_API_KEY")
	}
	if logger == nil {
		logger = slog.Default()
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Client{client: c, log: logger}, nil
}

func (c *Client) Provider() string { return providerName }

// Invoke implements llm.Invoker with a single GenerateContent call.
func (c *Client) Invoke(ctx context.Context, prompt, model string) (string, error) {
	rid := common.RequestIDFromContext(ctx)
	start := time.Now()

	res, err := c.client.Models.GenerateContent(ctx, model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, nil)
	if err != nil {
		c.log.Error("llm.invoke.http_error", "req_id", rid, "provider", providerName, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", &common.ProviderError{Provider: providerName, Cause: err}
	}

	text := res.Text()
	if strings.TrimSpace(text) == "" {
		c.log.Error("llm.invoke.empty_content", "req_id", rid, "provider", providerName,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", common.ErrEmptyResponse
	}
	c.log.Info("llm.invoke.ok", "req_id", rid, "provider", providerName, "model", model,
		"content_len", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}
