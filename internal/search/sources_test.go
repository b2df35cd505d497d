// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-assessor/internal/httputil"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// serve starts an httptest server and points *base at it for the test.
func serve(t *testing.T, base *string, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := *base
	*base = ts.URL
	t.Cleanup(func() {
		*base = old
		ts.Close()
	})
	return ts
}

const serpBody = `{
  "search_metadata": {"status": "Success"},
  "organic_results": [
    {"position": 0, "title": "Prior Method for X", "snippet": "We study X.", "link": "https://example.org/1"},
    {"position": 1, "title": "Another Method", "snippet": "Y beats X."},
    {"position": 2, "title": "Overflow", "snippet": "not wanted"}
  ]
}`

func TestSerpAPIScholarSearch(t *testing.T) {
	var captured *http.Request
	ts := serve(t, &serpAPIBase, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, serpBody)
	})

	s := &SerpAPIScholar{Client: ts.Client(), APIKey: "serp_test", UserAgent: "paper-assessor/test"}
	refs, err := s.Search(context.Background(), "methods for X", 2)
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Equal(t, "google_scholar", q.Get("engine"))
	assert.Equal(t, "methods for X", q.Get("q"))
	assert.Equal(t, "serp_test", q.Get("api_key"))
	assert.Equal(t, "2", q.Get("num"))
	assert.Equal(t, "paper-assessor/test", captured.Header.Get("User-Agent"))

	assert.Equal(t, []types.Reference{
		{Title: "Prior Method for X", Content: "We study X.", Source: "Google Scholar"},
		{Title: "Another Method", Content: "Y beats X.", Source: "Google Scholar"},
	}, refs)
}

func TestSerpAPIScholarErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{name: "api error field", status: http.StatusOK, body: `{"error": "Invalid API key."}`, errMsg: "Invalid API key."},
		{name: "http error", status: http.StatusTooManyRequests, body: `slow down`, errMsg: "HTTP 429"},
		{name: "malformed json", status: http.StatusOK, body: `{`, errMsg: "decoding response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := serve(t, &serpAPIBase, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			_, err := (&SerpAPIScholar{Client: ts.Client()}).Search(context.Background(), "q", 2)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSerpAPIScholarNoResults(t *testing.T) {
	ts := serve(t, &serpAPIBase, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"search_metadata": {"status": "Success"}}`)
	})
	refs, err := (&SerpAPIScholar{Client: ts.Client()}).Search(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>Prior Method
      for X</title>
    <summary>  We present a prior method for X.  </summary>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2302.00001v1</id>
    <title>Second Paper</title>
    <summary>Second summary.</summary>
  </entry>
</feed>`

func TestArxivSearch(t *testing.T) {
	var captured *http.Request
	ts := serve(t, &arxivAPIBase, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, arxivFeedXML)
	})

	a := &Arxiv{Client: ts.Client(), UserAgent: "paper-assessor/test"}
	refs, err := a.Search(context.Background(), "  graph   neural networks ", 2)
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Equal(t, "all:graph neural networks", q.Get("search_query"))
	assert.Equal(t, "2", q.Get("max_results"))
	assert.Equal(t, "relevance", q.Get("sortBy"))
	assert.Equal(t, "paper-assessor/test", captured.Header.Get("User-Agent"))

	require.Len(t, refs, 2)
	assert.Equal(t, types.Reference{Title: "Prior Method for X", Content: "We present a prior method for X.", Source: "arXiv"}, refs[0])
	assert.Equal(t, "Second Paper", refs[1].Title)
}

func TestArxivSearchLimit(t *testing.T) {
	ts := serve(t, &arxivAPIBase, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, arxivFeedXML)
	})
	refs, err := (&Arxiv{Client: ts.Client()}).Search(context.Background(), "x", 1)
	require.NoError(t, err)
	assert.Len(t, refs, 1)
}

func TestArxivSearchErrors(t *testing.T) {
	_, err := (&Arxiv{}).Search(context.Background(), "   ", 2)
	assert.Error(t, err)

	ts := serve(t, &arxivAPIBase, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err = (&Arxiv{Client: ts.Client()}).Search(context.Background(), "x", 2)
	var statusErr *httputil.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestSemanticScholarSearch(t *testing.T) {
	var captured *http.Request
	ts := serve(t, &semanticAPIBase, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"total": 2, "data": [
			{"paperId": "a", "title": "With Abstract", "abstract": "Full abstract."},
			{"paperId": "b", "title": "Only TLDR", "abstract": null, "tldr": {"text": "Short summary."}}
		]}`)
	})

	s := &SemanticScholar{Client: ts.Client(), APIKey: "s2-key"}
	refs, err := s.Search(context.Background(), "attention", 2)
	require.NoError(t, err)

	assert.Equal(t, "attention", captured.URL.Query().Get("query"))
	assert.Equal(t, "2", captured.URL.Query().Get("limit"))
	assert.Equal(t, "s2-key", captured.Header.Get("x-api-key"))

	assert.Equal(t, []types.Reference{
		{Title: "With Abstract", Content: "Full abstract.", Source: "Semantic Scholar"},
		{Title: "Only TLDR", Content: "Short summary.", Source: "Semantic Scholar"},
	}, refs)
}

func TestSemanticScholarNoKeyHeader(t *testing.T) {
	var header http.Header
	ts := serve(t, &semanticAPIBase, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header
		fmt.Fprint(w, `{"total": 0, "data": []}`)
	})
	_, err := (&SemanticScholar{Client: ts.Client()}).Search(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Empty(t, header.Get("x-api-key"))
}

func TestOpenAlexSearch(t *testing.T) {
	var captured *http.Request
	ts := serve(t, &openAlexSearchBase, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"results": [
			{"id": "W1", "title": "Inverted", "abstract_inverted_index": {"method": [2], "A": [0], "new": [1]}},
			{"id": "W2", "title": null, "display_name": "Display Name Only"}
		]}`)
	})

	o := &OpenAlex{Client: ts.Client(), Email: "me@example.org"}
	refs, err := o.Search(context.Background(), "new method", 2)
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Equal(t, "new method", q.Get("search"))
	assert.Equal(t, "2", q.Get("per_page"))
	assert.Equal(t, "me@example.org", q.Get("mailto"))

	assert.Equal(t, []types.Reference{
		{Title: "Inverted", Content: "A new method", Source: "OpenAlex"},
		{Title: "Display Name Only", Content: "", Source: "OpenAlex"},
	}, refs)
}

func TestReconstructAbstract(t *testing.T) {
	assert.Equal(t, "", reconstructAbstract(nil))
	assert.Equal(t, "to be or not to be", reconstructAbstract(map[string][]int{
		"to": {0, 4}, "be": {1, 5}, "or": {2}, "not": {3},
	}))
}
