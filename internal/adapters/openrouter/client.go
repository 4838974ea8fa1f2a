// Package openrouter implements ports.CompletionClient against any
// OpenAI-compatible chat-completions API (OpenRouter in production).
package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/samirrijal/oceanhelm/internal/pkg/metrics"
)

// Client wraps the go-openai client with OpenRouter attribution headers.
type Client struct {
	api *openai.Client
}

// headerTransport injects the attribution headers OpenRouter expects on
// every request.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(req)
}

// New creates a completion client for the given API endpoint.
func New(baseURL, apiKey, referer, title string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{
		Timeout: 90 * time.Second,
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			referer: referer,
			title:   title,
		},
	}
	return &Client{api: openai.NewClientWithConfig(cfg)}
}

// Complete sends a system+user message pair and returns the trimmed
// assistant reply.
func (c *Client) Complete(ctx context.Context, model, system, user string, temperature float32) (string, error) {
	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	metrics.OracleLatency.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choice list")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
