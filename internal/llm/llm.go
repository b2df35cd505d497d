// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm talks to hosted language models. Callers build a Request of
// role-tagged messages and receive the generated text; the provider behind
// the Client interface is chosen from configuration.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-assessor/pkg/types"
)

// Role tags a message in a conversation.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged turn sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion call.
type Request struct {
	Messages    []Message
	Temperature float64

	// JSON asks the provider for a JSON object response. The caller must
	// still parse the result defensively.
	JSON bool
}

// Client returns the text the model generates for a request.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// System builds a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User builds a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

type settings struct {
	logger     *zap.Logger
	httpClient *http.Client
}

// Option configures a client.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithHTTPClient sets the HTTP client used for provider calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

func newSettings(opts []Option) settings {
	s := settings{logger: zap.NewNop(), httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// New returns the Client for cfg.Provider.
func New(ctx context.Context, cfg types.LLMConfig, opts ...Option) (Client, error) {
	switch cfg.Provider {
	case types.ProviderGroq, "":
		return NewChatClient(cfg, opts...), nil
	case types.ProviderGemini:
		return NewGeminiClient(ctx, cfg, opts...)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// withTimeout bounds one model call. A zero timeout leaves ctx unchanged.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
