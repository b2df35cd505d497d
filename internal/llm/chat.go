// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-assessor/internal/httputil"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// groqBaseURL is the default OpenAI-compatible endpoint root. Package-level
// var for test substitution.
var groqBaseURL = "https://api.groq.com/openai/v1"

// ChatClient calls an OpenAI-compatible chat completions endpoint. Groq is
// the default.
type ChatClient struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// NewChatClient returns a ChatClient for cfg. cfg.BaseURL overrides the
// Groq endpoint.
func NewChatClient(cfg types.LLMConfig, opts ...Option) *ChatClient {
	s := newSettings(opts)
	base := cfg.BaseURL
	if base == "" {
		base = groqBaseURL
	}
	return &ChatClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(base, "/"),
		timeout: cfg.Timeout,
		client:  s.httpClient,
		logger:  s.logger,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends req to /chat/completions and returns the first choice.
func (c *ChatClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	body := chatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	var resp chatResponse
	if err := httputil.PostJSON(ctx, c.client, c.baseURL+"/chat/completions", header, body, &resp); err != nil {
		return "", fmt.Errorf("calling %s: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("calling %s: response has no choices", c.model)
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("calling %s: response has no text", c.model)
	}

	c.logger.Debug("chat completion",
		zap.String("model", c.model),
		zap.Int("messages", len(req.Messages)),
		zap.Bool("json", req.JSON),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}
