// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-assessor/internal/document"
	"github.com/pdiddy/paper-assessor/internal/evaluate"
	"github.com/pdiddy/paper-assessor/internal/extract"
	"github.com/pdiddy/paper-assessor/internal/llm"
	"github.com/pdiddy/paper-assessor/internal/query"
	"github.com/pdiddy/paper-assessor/internal/search"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// Build constructs every stage from cfg, which must already be validated.
func Build(ctx context.Context, cfg types.Config, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := &http.Client{}

	model, err := llm.New(ctx, cfg.LLM,
		llm.WithLogger(logger.Named("llm")),
		llm.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating language model client: %w", err)
	}

	searcher, err := search.New(cfg.Search, httpClient, search.WithLogger(logger.Named("search")))
	if err != nil {
		return nil, fmt.Errorf("creating searcher: %w", err)
	}

	ex := extract.New(cfg.Extract, extract.WithLogger(logger.Named("extract")))
	q := query.New(model,
		query.WithTemperature(cfg.LLM.QueryTemperature),
		query.WithLogger(logger.Named("query")))
	ev := evaluate.New(model, cfg.Evaluate,
		evaluate.WithTemperatures(cfg.LLM.VerifyTemperature, cfg.LLM.AssessTemperature),
		evaluate.WithLogger(logger.Named("evaluate")))

	base := []Option{
		WithStore(document.NewStore(cfg.Server.UploadDir, cfg.Server.MaxUploadBytes)),
		WithLogger(logger.Named("pipeline")),
	}
	return New(ex, q, searcher, ev, append(base, opts...)...), nil
}
