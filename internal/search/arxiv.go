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

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv queries the arXiv preprint repository, sorted by relevance.
type Arxiv struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the source label.
func (a *Arxiv) Name() string { return types.SourceArxiv }

// Search returns up to limit entries whose title and summary become the
// reference title and content.
func (a *Arxiv) Search(ctx context.Context, query string, limit int) ([]types.Reference, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	params := url.Values{
		"search_query": {q},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(limit)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	header := http.Header{}
	if a.UserAgent != "" {
		header.Set("User-Agent", a.UserAgent)
	}

	var feed arxivFeed
	if err := httputil.GetXML(ctx, a.Client, arxivAPIBase+"?"+params.Encode(), header, &feed); err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}

	refs := make([]types.Reference, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		if len(refs) == limit {
			break
		}
		refs = append(refs, types.Reference{
			Title:   oneLine(entry.Title),
			Content: strings.TrimSpace(entry.Summary),
			Source:  types.SourceArxiv,
		})
	}
	return refs, nil
}

// buildArxivQuery searches all fields for every term of a free-text query.
func buildArxivQuery(q string) string {
	terms := strings.Fields(q)
	if len(terms) == 0 {
		return ""
	}
	return "all:" + strings.Join(terms, " ")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}
