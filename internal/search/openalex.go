// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-assessor/internal/httputil"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// openAlexMaxPerPage is the largest page OpenAlex serves.
const openAlexMaxPerPage = 200

// OpenAlex queries the OpenAlex Works API.
type OpenAlex struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email     string
	UserAgent string
}

// Name returns the source label.
func (o *OpenAlex) Name() string { return types.SourceOpenAlex }

// Search returns up to limit works with abstracts rebuilt from the
// inverted index.
func (o *OpenAlex) Search(ctx context.Context, query string, limit int) ([]types.Reference, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}

	perPage := limit
	if perPage > openAlexMaxPerPage {
		perPage = openAlexMaxPerPage
	}
	params := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(perPage)},
		"page":     {"1"},
	}
	if o.Email != "" {
		params.Set("mailto", o.Email)
	}

	header := http.Header{}
	if o.UserAgent != "" {
		header.Set("User-Agent", o.UserAgent)
	}

	var oar openAlexResponse
	if err := httputil.GetJSON(ctx, o.Client, openAlexSearchBase+"?"+params.Encode(), header, &oar); err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}

	refs := make([]types.Reference, 0, len(oar.Results))
	for _, work := range oar.Results {
		if len(refs) == limit {
			break
		}
		title := work.Title
		if title == "" {
			title = work.DisplayName
		}
		refs = append(refs, types.Reference{
			Title:   title,
			Content: reconstructAbstract(work.AbstractInvertedIndex),
			Source:  types.SourceOpenAlex,
		})
	}
	return refs, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	DisplayName           string           `json:"display_name"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}
