// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-assessor/internal/httputil"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search.json"

// SerpAPIScholar queries Google Scholar through SerpAPI.
type SerpAPIScholar struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the source label.
func (s *SerpAPIScholar) Name() string { return types.SourceGoogleScholar }

// Search returns the top limit organic results as references.
func (s *SerpAPIScholar) Search(ctx context.Context, query string, limit int) ([]types.Reference, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty Google Scholar query")
	}

	params := url.Values{
		"engine":  {"google_scholar"},
		"q":       {query},
		"api_key": {s.APIKey},
		"num":     {strconv.Itoa(limit)},
	}

	header := http.Header{}
	if s.UserAgent != "" {
		header.Set("User-Agent", s.UserAgent)
	}

	var resp serpResponse
	if err := httputil.GetJSON(ctx, s.Client, serpAPIBase+"?"+params.Encode(), header, &resp); err != nil {
		return nil, fmt.Errorf("SerpAPI request: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("SerpAPI: %s", resp.Error)
	}

	refs := make([]types.Reference, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		if len(refs) == limit {
			break
		}
		refs = append(refs, types.Reference{
			Title:   r.Title,
			Content: r.Snippet,
			Source:  types.SourceGoogleScholar,
		})
	}
	return refs, nil
}

// SerpAPI Google Scholar JSON structures.
type serpResponse struct {
	Error          string       `json:"error"`
	OrganicResults []serpResult `json:"organic_results"`
}

type serpResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}
