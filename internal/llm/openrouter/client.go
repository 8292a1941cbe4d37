package openrouter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/revrost/go-openrouter"

	"github.com/joseph-ayodele/signloop/internal/common"
)

const providerName = "openrouter"

func (c *Client) Provider() string { return providerName }

// Invoke implements llm.Invoker: one user message, one completion, no retries.
func (c *Client) Invoke(ctx context.Context, prompt, model string) (string, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	c.log.Info("llm.invoke.start",
		"req_id", rid,
		"provider", providerName,
		"model", model,
		"prompt_len", len(prompt),
	)

	resp, err := c.or.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model: model,
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role:    openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{Text: prompt},
			},
		},
	})
	if err != nil {
		c.log.Error("llm.invoke.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &common.ProviderError{Provider: providerName, Cause: err}
	}
	if len(resp.Choices) == 0 {
		c.log.Error("llm.invoke.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content.Text
	if strings.TrimSpace(content) == "" {
		c.log.Error("llm.invoke.empty_content",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.ErrEmptyResponse
	}

	c.log.Info("llm.invoke.ok",
		"req_id", rid,
		"model", model,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
