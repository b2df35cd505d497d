// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns an abstract into a handful of search queries.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-assessor/internal/llm"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// MaxQueries caps how many queries Generate returns.
const MaxQueries = 3

const systemPrompt = `You are an academic search assistant. Generate 2-3 precise search queries to find papers that could validate or contradict this research. Respond with a JSON object of the form {"queries": ["...", "..."]} containing only query strings, with no additional text or numbering.`

// errMalformed marks a model response that did not carry usable queries.
var errMalformed = errors.New("malformed query response")

// Generator asks a language model for search queries.
type Generator struct {
	client      llm.Client
	temperature float64
	logger      *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithTemperature overrides the sampling temperature (default 0.3).
func WithTemperature(t float64) Option {
	return func(g *Generator) { g.temperature = t }
}

// New returns a Generator backed by client.
func New(client llm.Client, opts ...Option) *Generator {
	g := &Generator{client: client, temperature: 0.3, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns at most MaxQueries queries for abstract. A failed model
// call returns *types.QueryGenerationError. A response that arrives but
// cannot be parsed is not an error: Generate returns Fallback(abstract).
func (g *Generator) Generate(ctx context.Context, abstract string) ([]string, error) {
	raw, err := g.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			llm.System(systemPrompt),
			llm.User("Abstract:\n" + abstract),
		},
		Temperature: g.temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, &types.QueryGenerationError{Err: err}
	}

	queries, err := Parse(raw)
	if err != nil {
		g.logger.Warn("query response unusable, using fallback queries",
			zap.Error(err), zap.Int("response_bytes", len(raw)))
		return Fallback(abstract), nil
	}
	g.logger.Debug("queries generated", zap.Strings("queries", queries))
	return queries, nil
}

// Parse decodes a model response into queries. It accepts an object with a
// "queries" array or a bare JSON array of strings. Surrounding quotes and
// whitespace are trimmed, empty entries dropped, and the list capped at
// MaxQueries. A response with no usable query is malformed.
func Parse(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)

	var list []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, errors.Join(errMalformed, err)
		}
	} else {
		var obj struct {
			Queries []string `json:"queries"`
		}
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, errors.Join(errMalformed, err)
		}
		list = obj.Queries
	}

	queries := make([]string, 0, MaxQueries)
	for _, q := range list {
		q = strings.TrimSpace(strings.Trim(strings.TrimSpace(q), `"`))
		if q == "" {
			continue
		}
		queries = append(queries, q)
		if len(queries) == MaxQueries {
			break
		}
	}
	if len(queries) == 0 {
		return nil, errMalformed
	}
	return queries, nil
}

// Fallback builds three queries from fixed phrases and prefixes of the
// abstract. The result depends only on abstract.
func Fallback(abstract string) []string {
	words := strings.Fields(abstract)
	if len(words) > 2 {
		words = words[:2]
	}
	clause, _, _ := strings.Cut(prefix(abstract, 50), ",")

	return []string{
		strings.TrimSpace("novel approaches to " + strings.Join(words, " ")),
		strings.TrimSpace("state-of-the-art techniques in " + clause),
		strings.TrimSpace("limitations of " + prefix(abstract, 30)),
	}
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
