// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-assessor/internal/llm"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// scriptedLLM answers verification calls with "analysis N" and the
// assessment call with "final verdict". failAt makes the Nth call (1-based)
// fail.
type scriptedLLM struct {
	requests []llm.Request
	failAt   int
}

func (s *scriptedLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	s.requests = append(s.requests, req)
	n := len(s.requests)
	if n == s.failAt {
		return "", errors.New("503 model overloaded")
	}
	if strings.HasPrefix(req.Messages[0].Content, "Analyze paper publishability") {
		return "final verdict", nil
	}
	return fmt.Sprintf("analysis %d", n), nil
}

const abstract = "We propose a new method for X that improves on Y."

func refs(n int) []types.Reference {
	out := make([]types.Reference, n)
	for i := range out {
		out[i] = types.Reference{
			Title:   fmt.Sprintf("Ref Title %d", i+1),
			Content: fmt.Sprintf("content %d", i+1),
			Source:  types.SourceArxiv,
		}
	}
	return out
}

func defaultCfg() types.EvaluateConfig {
	return types.DefaultConfig().Evaluate
}

func TestEvaluateCapsAtFive(t *testing.T) {
	fake := &scriptedLLM{}
	ev, err := New(fake, defaultCfg()).Evaluate(context.Background(), abstract, refs(7))
	require.NoError(t, err)

	require.Len(t, ev.Verification.Checks, 5)
	for i, c := range ev.Verification.Checks {
		assert.Equal(t, fmt.Sprintf("Ref Title %d", i+1), c.Reference)
		assert.Equal(t, fmt.Sprintf("analysis %d", i+1), c.Analysis)
		assert.Equal(t, types.SourceArxiv, c.Source)
	}
	assert.Equal(t, "final verdict", ev.Assessment)
	assert.Len(t, fake.requests, 6)
}

func TestEvaluateZeroReferences(t *testing.T) {
	fake := &scriptedLLM{}
	ev, err := New(fake, defaultCfg()).Evaluate(context.Background(), abstract, nil)
	require.NoError(t, err)

	assert.NotNil(t, ev.Verification.Checks)
	assert.Empty(t, ev.Verification.Checks)
	assert.Empty(t, ev.Verification.Summary)
	assert.Equal(t, "final verdict", ev.Assessment)

	require.Len(t, fake.requests, 1, "assessment still runs with an empty summary")
	assert.Equal(t, "Analyze paper publishability using these reference checks:\n", fake.requests[0].Messages[0].Content)
}

func TestEvaluateFewerThanMax(t *testing.T) {
	ev, err := New(&scriptedLLM{}, defaultCfg()).Evaluate(context.Background(), abstract, refs(2))
	require.NoError(t, err)
	assert.Len(t, ev.Verification.Checks, 2)
}

func TestVerifyPrompt(t *testing.T) {
	fake := &scriptedLLM{}
	ref := types.Reference{Title: "Prior Method for X", Content: strings.Repeat("a", 600) + "TAIL"}

	v, err := New(fake, defaultCfg()).Verify(context.Background(), abstract, []types.Reference{ref})
	require.NoError(t, err)

	req := fake.requests[0]
	assert.InDelta(t, 0.3, req.Temperature, 1e-9)
	assert.False(t, req.JSON)
	require.Len(t, req.Messages, 2)

	system := req.Messages[0]
	assert.Equal(t, llm.RoleSystem, system.Role)
	assert.Equal(t, "Compare reference with new paper:\nREFERENCE: Prior Method for X\n"+strings.Repeat("a", 500), system.Content)

	user := req.Messages[1]
	assert.Equal(t, llm.RoleUser, user.Role)
	assert.Contains(t, user.Content, abstract)
	assert.Contains(t, user.Content, "1. Show NOVELTY beyond reference? (Y/N + reason)")
	assert.Contains(t, user.Content, "2. Have BETTER METHODOLOGY? (Y/N + reason)")
	assert.Contains(t, user.Content, "3. CONTRADICT reference? (Y/N + reason)")

	assert.Equal(t, types.SourceUnknown, v.Checks[0].Source, "missing source becomes Unknown")
}

func TestAssessPrompt(t *testing.T) {
	fake := &scriptedLLM{}
	e := New(fake, defaultCfg(), WithTemperatures(0.5, 0.1))

	_, err := e.Assess(context.Background(), abstract, "Ref 1: T\nanalysis")
	require.NoError(t, err)

	req := fake.requests[0]
	assert.InDelta(t, 0.1, req.Temperature, 1e-9)
	assert.Equal(t, "Analyze paper publishability using these reference checks:\nRef 1: T\nanalysis", req.Messages[0].Content)
	assert.Equal(t, "Paper Abstract:\n"+abstract, req.Messages[1].Content)
}

func TestSummarize(t *testing.T) {
	checks := []types.Check{
		{Reference: "First", Analysis: "1. Y novel"},
		{Reference: "Second", Analysis: "1. N same"},
	}
	assert.Equal(t, "Ref 1: First\n1. Y novel\n\nRef 2: Second\n1. N same", Summarize(checks))
	assert.Equal(t, "", Summarize(nil))
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name      string
		failAt    int
		refs      int
		wantStage string
		wantRef   string
	}{
		{name: "first verification", failAt: 1, refs: 3, wantStage: StageVerification, wantRef: "Ref Title 1"},
		{name: "third verification", failAt: 3, refs: 3, wantStage: StageVerification, wantRef: "Ref Title 3"},
		{name: "assessment", failAt: 4, refs: 3, wantStage: StageAssessment},
		{name: "assessment with no references", failAt: 1, refs: 0, wantStage: StageAssessment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &scriptedLLM{failAt: tt.failAt}
			_, err := New(fake, defaultCfg()).Evaluate(context.Background(), abstract, refs(tt.refs))

			var evalErr *types.EvaluationError
			require.ErrorAs(t, err, &evalErr)
			assert.Equal(t, tt.wantStage, evalErr.Stage)
			assert.Equal(t, tt.wantRef, evalErr.Reference)
			assert.Len(t, fake.requests, tt.failAt, "no calls after a failure")
		})
	}
}

func TestExcerptMultibyte(t *testing.T) {
	assert.Equal(t, "ééé", excerpt("éééé", 3))
	assert.Equal(t, "ab", excerpt("ab", 500))
}

func TestNewDefaults(t *testing.T) {
	e := New(&scriptedLLM{}, types.EvaluateConfig{})
	assert.Equal(t, DefaultMaxReferences, e.maxReferences)
	assert.Equal(t, DefaultExcerptChars, e.excerptChars)
}
