// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search retrieves candidate prior work for a set of queries.
//
// Each query goes to a scholarly source and then to the arXiv preprint
// source. Results are concatenated in query order, scholarly before
// preprint, with no deduplication. A source that fails for one query
// contributes nothing for that query and the batch continues.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-assessor/pkg/types"
)

// Source searches one external service. Each service (SerpAPI Google
// Scholar, Semantic Scholar, OpenAlex, arXiv) implements this interface.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.Reference, error)
}

// Searcher runs every query against a scholarly and a preprint source.
type Searcher struct {
	scholarly Source
	preprint  Source
	limit     int
	delay     time.Duration
	timeout   time.Duration
	logger    *zap.Logger
	wait      func(ctx context.Context, d time.Duration) error
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Searcher) { s.logger = l }
}

// NewSearcher returns a Searcher over the two sources. cfg supplies the
// per-source result cap, the delay before each scholarly call, and the
// per-call timeout.
func NewSearcher(scholarly, preprint Source, cfg types.SearchConfig, opts ...Option) *Searcher {
	s := &Searcher{
		scholarly: scholarly,
		preprint:  preprint,
		limit:     cfg.MaxResults,
		delay:     cfg.ScholarlyDelay,
		timeout:   cfg.Timeout,
		logger:    zap.NewNop(),
		wait:      sleep,
	}
	if s.limit <= 0 {
		s.limit = 2
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchAll runs queries in order and returns the concatenated references.
// Source failures are logged and skipped. The only error is the context's,
// returned with the references gathered so far.
func (s *Searcher) SearchAll(ctx context.Context, queries []string) ([]types.Reference, error) {
	refs := make([]types.Reference, 0, len(queries)*2*s.limit)
	for _, q := range queries {
		if err := s.wait(ctx, s.delay); err != nil {
			return refs, err
		}
		refs = append(refs, s.query(ctx, s.scholarly, q)...)
		refs = append(refs, s.query(ctx, s.preprint, q)...)
		if err := ctx.Err(); err != nil {
			return refs, err
		}
	}
	return refs, nil
}

// query calls src once under the per-call timeout. Any failure yields nil.
func (s *Searcher) query(ctx context.Context, src Source, q string) []types.Reference {
	if src == nil {
		return nil
	}
	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
	}
	defer cancel()

	results, err := src.Search(callCtx, q, s.limit)
	if err != nil {
		err = &types.SearchUnavailableError{Source: src.Name(), Query: q, Err: err}
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			s.logger.Debug("search canceled", zap.Error(err))
			return nil
		}
		s.logger.Warn("search source failed", zap.String("source", src.Name()), zap.String("query", q), zap.Error(err))
		return nil
	}
	if len(results) > s.limit {
		results = results[:s.limit]
	}
	s.logger.Debug("search source returned",
		zap.String("source", src.Name()), zap.String("query", q), zap.Int("results", len(results)))
	return results
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FormatTable writes references as a human-readable table to w.
func FormatTable(refs []types.Reference, w io.Writer) {
	if len(refs) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-16s  %s\n", "#", "Title", "Source", "Snippet")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range refs {
		fmt.Fprintf(w, "%-4d  %-60s  %-16s  %s\n",
			i+1, truncate(oneLine(r.Title), 60), r.Source, truncate(oneLine(r.Content), 34))
	}
	fmt.Fprintf(w, "\n%d results\n", len(refs))
}

// FormatJSON writes references as indented JSON to w.
func FormatJSON(refs []types.Reference, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(refs)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
