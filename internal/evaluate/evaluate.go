// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate compares an abstract against retrieved references and
// produces the final publishability assessment.
//
// Verification asks the model one question set per reference, in order,
// and keeps each answer verbatim. The answers are joined into a summary
// that seeds a single assessment call.
package evaluate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-assessor/internal/llm"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// Stage names reported in EvaluationError.
const (
	StageVerification = "verification"
	StageAssessment   = "assessment"
)

// Defaults applied when the config leaves a field at zero.
const (
	DefaultMaxReferences = 5
	DefaultExcerptChars  = 500
)

// Evaluator runs verification and assessment against a language model.
type Evaluator struct {
	client            llm.Client
	maxReferences     int
	excerptChars      int
	verifyTemperature float64
	assessTemperature float64
	logger            *zap.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// WithTemperatures overrides the verification and assessment temperatures
// (defaults 0.3 and 0.2).
func WithTemperatures(verify, assess float64) Option {
	return func(e *Evaluator) {
		e.verifyTemperature = verify
		e.assessTemperature = assess
	}
}

// New returns an Evaluator backed by client.
func New(client llm.Client, cfg types.EvaluateConfig, opts ...Option) *Evaluator {
	e := &Evaluator{
		client:            client,
		maxReferences:     cfg.MaxReferences,
		excerptChars:      cfg.ExcerptChars,
		verifyTemperature: 0.3,
		assessTemperature: 0.2,
		logger:            zap.NewNop(),
	}
	if e.maxReferences <= 0 {
		e.maxReferences = DefaultMaxReferences
	}
	if e.excerptChars <= 0 {
		e.excerptChars = DefaultExcerptChars
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate verifies abstract against the leading references and returns the
// Evaluation. With no references the assessment call still runs on an
// empty summary. Any failed model call returns *types.EvaluationError.
func (e *Evaluator) Evaluate(ctx context.Context, abstract string, refs []types.Reference) (*types.Evaluation, error) {
	verification, err := e.Verify(ctx, abstract, refs)
	if err != nil {
		return nil, err
	}

	assessment, err := e.Assess(ctx, abstract, verification.Summary)
	if err != nil {
		return nil, err
	}

	return &types.Evaluation{
		Verification: *verification,
		Assessment:   assessment,
	}, nil
}

// Verify runs one comparison per reference, up to the configured maximum,
// in the order given.
func (e *Evaluator) Verify(ctx context.Context, abstract string, refs []types.Reference) (*types.Verification, error) {
	if len(refs) > e.maxReferences {
		refs = refs[:e.maxReferences]
	}

	checks := make([]types.Check, 0, len(refs))
	for i, ref := range refs {
		system, err := render(verifySystemTmpl, verifyData{Title: ref.Title, Excerpt: excerpt(ref.Content, e.excerptChars)})
		if err != nil {
			return nil, &types.EvaluationError{Stage: StageVerification, Reference: ref.Title, Err: err}
		}
		user, err := render(verifyUserTmpl, verifyData{Abstract: abstract})
		if err != nil {
			return nil, &types.EvaluationError{Stage: StageVerification, Reference: ref.Title, Err: err}
		}

		analysis, err := e.client.Complete(ctx, llm.Request{
			Messages:    []llm.Message{llm.System(system), llm.User(user)},
			Temperature: e.verifyTemperature,
		})
		if err != nil {
			return nil, &types.EvaluationError{Stage: StageVerification, Reference: ref.Title, Err: err}
		}

		source := ref.Source
		if source == "" {
			source = types.SourceUnknown
		}
		checks = append(checks, types.Check{Reference: ref.Title, Analysis: analysis, Source: source})
		e.logger.Debug("reference verified", zap.Int("index", i+1), zap.String("reference", ref.Title))
	}

	return &types.Verification{Checks: checks, Summary: Summarize(checks)}, nil
}

// Assess asks for the overall publishability judgment given the summary.
func (e *Evaluator) Assess(ctx context.Context, abstract, summary string) (string, error) {
	system, err := render(assessSystemTmpl, assessData{Summary: summary})
	if err != nil {
		return "", &types.EvaluationError{Stage: StageAssessment, Err: err}
	}

	assessment, err := e.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			llm.System(system),
			llm.User("Paper Abstract:\n" + abstract),
		},
		Temperature: e.assessTemperature,
	})
	if err != nil {
		return "", &types.EvaluationError{Stage: StageAssessment, Err: err}
	}
	return assessment, nil
}

// Summarize renders checks as numbered paragraphs: "Ref N: title" followed
// by the analysis.
func Summarize(checks []types.Check) string {
	parts := make([]string, len(checks))
	for i, c := range checks {
		parts[i] = fmt.Sprintf("Ref %d: %s\n%s", i+1, c.Reference, c.Analysis)
	}
	return strings.Join(parts, "\n\n")
}

// excerpt returns the first n runes of s.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
