// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/paper-assessor/pkg/types"
)

// fakeSource returns two references per query, tagged with the query text,
// unless the query is listed in fail.
type fakeSource struct {
	name   string
	fail   map[string]bool
	calls  []string
	limits []int
	extra  int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(_ context.Context, query string, limit int) ([]types.Reference, error) {
	f.calls = append(f.calls, query)
	f.limits = append(f.limits, limit)
	if f.fail[query] {
		return nil, errors.New("HTTP 503")
	}
	var refs []types.Reference
	for i := 0; i < limit+f.extra; i++ {
		refs = append(refs, types.Reference{
			Title:   fmt.Sprintf("%s %s %d", f.name, query, i),
			Content: "snippet",
			Source:  f.name,
		})
	}
	return refs, nil
}

func testCfg() types.SearchConfig {
	cfg := types.DefaultConfig().Search
	cfg.ScholarlyDelay = 0
	return cfg
}

func titles(refs []types.Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Title
	}
	return out
}

func TestSearchAllOrdering(t *testing.T) {
	scholar := &fakeSource{name: "S"}
	arxiv := &fakeSource{name: "A"}
	s := NewSearcher(scholar, arxiv, testCfg())

	refs, err := s.SearchAll(context.Background(), []string{"q1", "q2"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"S q1 0", "S q1 1", "A q1 0", "A q1 1",
		"S q2 0", "S q2 1", "A q2 0", "A q2 1",
	}, titles(refs))
	assert.Equal(t, []int{2, 2}, scholar.limits)
}

func TestSearchAllSwallowsSourceFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	scholar := &fakeSource{name: "S", fail: map[string]bool{"q1": true}}
	arxiv := &fakeSource{name: "A", fail: map[string]bool{"q2": true}}
	s := NewSearcher(scholar, arxiv, testCfg(), WithLogger(zap.New(core)))

	refs, err := s.SearchAll(context.Background(), []string{"q1", "q2", "q3"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"A q1 0", "A q1 1",
		"S q2 0", "S q2 1",
		"S q3 0", "S q3 1", "A q3 0", "A q3 1",
	}, titles(refs))

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "S", entry.ContextMap()["source"])
	assert.Equal(t, "q1", entry.ContextMap()["query"])
}

func TestSearchAllAllSourcesFail(t *testing.T) {
	fail := map[string]bool{"q": true}
	s := NewSearcher(&fakeSource{name: "S", fail: fail}, &fakeSource{name: "A", fail: fail}, testCfg())

	refs, err := s.SearchAll(context.Background(), []string{"q"})
	require.NoError(t, err)
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}

func TestSearchAllCapsOverlongResults(t *testing.T) {
	s := NewSearcher(&fakeSource{name: "S", extra: 3}, &fakeSource{name: "A"}, testCfg())

	refs, err := s.SearchAll(context.Background(), []string{"q"})
	require.NoError(t, err)
	assert.Len(t, refs, 4)
}

func TestSearchAllNoQueries(t *testing.T) {
	scholar := &fakeSource{name: "S"}
	refs, err := NewSearcher(scholar, &fakeSource{name: "A"}, testCfg()).SearchAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.Empty(t, scholar.calls)
}

func TestSearchAllWaitsBeforeEachScholarlyCall(t *testing.T) {
	cfg := testCfg()
	cfg.ScholarlyDelay = time.Second
	scholar := &fakeSource{name: "S"}
	s := NewSearcher(scholar, &fakeSource{name: "A"}, cfg)

	var waits []time.Duration
	s.wait = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	_, err := s.SearchAll(context.Background(), []string{"q1", "q2", "q3"})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, waits)
	assert.Len(t, scholar.calls, 3)
}

func TestSearchAllStopsOnCancel(t *testing.T) {
	scholar := &fakeSource{name: "S"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	refs, err := NewSearcher(scholar, &fakeSource{name: "A"}, testCfg()).SearchAll(ctx, []string{"q1", "q2"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, refs)
	assert.Empty(t, scholar.calls)
}

func TestSleep(t *testing.T) {
	require.NoError(t, sleep(context.Background(), 0))
	require.NoError(t, sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
}

func TestFormatTable(t *testing.T) {
	refs := []types.Reference{
		{Title: "Prior Method for X", Content: "We study X\nacross datasets.", Source: types.SourceArxiv},
		{Title: strings.Repeat("Long title ", 10), Content: "c", Source: types.SourceGoogleScholar},
	}
	var buf bytes.Buffer
	FormatTable(refs, &buf)

	out := buf.String()
	assert.Contains(t, out, "Prior Method for X")
	assert.Contains(t, out, "We study X across datasets.")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "2 results")
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestFormatJSON(t *testing.T) {
	refs := []types.Reference{{Title: "T", Content: "C", Source: types.SourceArxiv}}
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(refs, &buf))

	var got []types.Reference
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, refs, got)
}

func TestNewScholarly(t *testing.T) {
	cfg := testCfg()

	for source, want := range map[types.ScholarlySource]string{
		types.ScholarlySerpAPI:         types.SourceGoogleScholar,
		types.ScholarlySemanticScholar: types.SourceSemanticScholar,
		types.ScholarlyOpenAlex:        types.SourceOpenAlex,
	} {
		cfg.Scholarly = source
		src, err := NewScholarly(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, want, src.Name())
	}

	cfg.Scholarly = "bing"
	_, err := NewScholarly(cfg, nil)
	assert.Error(t, err)
}
