// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the four assessment stages in order: extract the
// abstract, generate queries, search for references, evaluate. Stages never
// overlap and nothing is retried. Uploaded documents are removed on every
// exit path.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-assessor/internal/document"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// Stage identifies a pipeline step for progress reporting.
type Stage string

const (
	StageExtracting Stage = "extracting"
	StageQuerying   Stage = "querying"
	StageSearching  Stage = "searching"
	StageEvaluating Stage = "evaluating"
)

// Percent is the share of the run complete once the stage has finished.
func (s Stage) Percent() int {
	switch s {
	case StageExtracting:
		return 25
	case StageQuerying:
		return 50
	case StageSearching:
		return 75
	case StageEvaluating:
		return 100
	}
	return 0
}

// Label is the user-facing description of the stage.
func (s Stage) Label() string {
	switch s {
	case StageExtracting:
		return "Extracting paper content"
	case StageQuerying:
		return "Generating search queries"
	case StageSearching:
		return "Searching academic databases"
	case StageEvaluating:
		return "Evaluating publishability"
	}
	return string(s)
}

// ProgressFunc is called after each stage completes.
type ProgressFunc func(stage Stage, percent int)

// Extractor returns the abstract of the document at path.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// QueryGenerator turns an abstract into search queries.
type QueryGenerator interface {
	Generate(ctx context.Context, abstract string) ([]string, error)
}

// Searcher returns references for queries, in query order.
type Searcher interface {
	SearchAll(ctx context.Context, queries []string) ([]types.Reference, error)
}

// Evaluator compares the abstract against references.
type Evaluator interface {
	Evaluate(ctx context.Context, abstract string, refs []types.Reference) (*types.Evaluation, error)
}

// Pipeline wires the four stages together.
type Pipeline struct {
	extractor Extractor
	querier   QueryGenerator
	searcher  Searcher
	evaluator Evaluator
	store     *document.Store
	progress  ProgressFunc
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore sets the document store used by RunUpload.
func WithStore(s *document.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New returns a Pipeline over the given stages.
func New(ex Extractor, q QueryGenerator, s Searcher, ev Evaluator, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: ex,
		querier:   q,
		searcher:  s,
		evaluator: ev,
		store:     document.NewStore("", 0),
		progress:  func(Stage, int) {},
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run assesses the document at path. Extraction, query-generation, and
// evaluation failures are returned as their typed errors; search failures
// never are.
func (p *Pipeline) Run(ctx context.Context, path string) (*types.Report, error) {
	start := p.now()

	abstract, queries, err := p.Queries(ctx, path)
	if err != nil {
		return nil, err
	}

	refs, err := p.searcher.SearchAll(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	p.done(StageSearching)
	p.logger.Info("references retrieved", zap.Int("references", len(refs)))

	eval, err := p.evaluator.Evaluate(ctx, abstract, refs)
	if err != nil {
		return nil, err
	}
	p.done(StageEvaluating)

	return &types.Report{
		Abstract:       abstract,
		AbstractWords:  len(strings.Fields(abstract)),
		Queries:        queries,
		References:     refs,
		Evaluation:     *eval,
		ElapsedSeconds: p.now().Sub(start).Seconds(),
	}, nil
}

// Queries runs the first two stages only and returns the abstract and the
// generated queries.
func (p *Pipeline) Queries(ctx context.Context, path string) (string, []string, error) {
	abstract, err := p.extractor.Extract(ctx, path)
	if err != nil {
		return "", nil, err
	}
	p.done(StageExtracting)
	p.logger.Info("abstract extracted", zap.Int("words", len(strings.Fields(abstract))))

	queries, err := p.querier.Generate(ctx, abstract)
	if err != nil {
		return "", nil, err
	}
	p.done(StageQuerying)
	p.logger.Info("queries generated", zap.Strings("queries", queries))

	return abstract, queries, nil
}

// RunUpload saves r to the document store, runs the pipeline on it, and
// removes the stored file before returning, whatever the outcome.
func (p *Pipeline) RunUpload(ctx context.Context, r io.Reader, name string) (report *types.Report, err error) {
	doc, err := p.store.Save(r, name)
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}
	defer func() {
		if rmErr := doc.Remove(); rmErr != nil {
			p.logger.Warn("temporary document not removed", zap.String("path", doc.Path), zap.Error(rmErr))
		}
	}()

	p.logger.Debug("upload stored", zap.String("name", doc.Name), zap.Int64("bytes", doc.Size))

	report, err = p.Run(ctx, doc.Path)
	if err != nil {
		return nil, &uploadError{err: err, path: doc.Path, name: doc.Name}
	}
	report.FileName = doc.Name
	return report, nil
}

// uploadError shows a stage error with the stored file's path replaced by
// the uploader's file name. The typed error stays reachable through Unwrap.
type uploadError struct {
	err  error
	path string
	name string
}

func (e *uploadError) Error() string {
	return strings.ReplaceAll(e.err.Error(), e.path, e.name)
}

func (e *uploadError) Unwrap() error { return e.err }

func (p *Pipeline) done(s Stage) {
	p.progress(s, s.Percent())
}
