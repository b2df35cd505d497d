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

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,tldr"

// SemanticScholar queries the Semantic Scholar Graph API. It needs no key;
// a key raises the rate limit.
type SemanticScholar struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the source label.
func (s *SemanticScholar) Name() string { return types.SourceSemanticScholar }

// Search returns up to limit papers. Content is the abstract, or the TLDR
// when the abstract is withheld.
func (s *SemanticScholar) Search(ctx context.Context, query string, limit int) ([]types.Reference, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	header := http.Header{}
	if s.UserAgent != "" {
		header.Set("User-Agent", s.UserAgent)
	}
	if s.APIKey != "" {
		header.Set("x-api-key", s.APIKey)
	}

	var sr semanticResponse
	if err := httputil.GetJSON(ctx, s.Client, semanticAPIBase+"?"+params.Encode(), header, &sr); err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}

	refs := make([]types.Reference, 0, len(sr.Data))
	for _, paper := range sr.Data {
		if len(refs) == limit {
			break
		}
		content := paper.Abstract
		if content == "" && paper.TLDR != nil {
			content = paper.TLDR.Text
		}
		refs = append(refs, types.Reference{
			Title:   paper.Title,
			Content: content,
			Source:  types.SourceSemanticScholar,
		})
	}
	return refs, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID  string        `json:"paperId"`
	Title    string        `json:"title"`
	Abstract string        `json:"abstract"`
	TLDR     *semanticTLDR `json:"tldr"`
}

type semanticTLDR struct {
	Text string `json:"text"`
}
