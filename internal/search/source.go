// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"net/http"

	"github.com/pdiddy/paper-assessor/pkg/types"
)

// NewScholarly returns the scholarly Source selected by cfg.Scholarly.
func NewScholarly(cfg types.SearchConfig, client *http.Client) (Source, error) {
	switch cfg.Scholarly {
	case types.ScholarlySerpAPI, "":
		return &SerpAPIScholar{Client: client, APIKey: cfg.SerpAPIKey, UserAgent: cfg.UserAgent}, nil
	case types.ScholarlySemanticScholar:
		return &SemanticScholar{Client: client, APIKey: cfg.SemanticScholarAPIKey, UserAgent: cfg.UserAgent}, nil
	case types.ScholarlyOpenAlex:
		return &OpenAlex{Client: client, Email: cfg.OpenAlexEmail, UserAgent: cfg.UserAgent}, nil
	default:
		return nil, fmt.Errorf("unknown scholarly source %q", cfg.Scholarly)
	}
}

// NewPreprint returns the arXiv Source.
func NewPreprint(cfg types.SearchConfig, client *http.Client) Source {
	return &Arxiv{Client: client, UserAgent: cfg.UserAgent}
}

// New builds a Searcher over the configured scholarly source and arXiv.
func New(cfg types.SearchConfig, client *http.Client, opts ...Option) (*Searcher, error) {
	scholarly, err := NewScholarly(cfg, client)
	if err != nil {
		return nil, err
	}
	return NewSearcher(scholarly, NewPreprint(cfg, client), cfg, opts...), nil
}
