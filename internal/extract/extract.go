// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls the abstract out of a research paper PDF.
//
// The abstract is located by a case-insensitive search for the word
// "abstract" across the text of all pages and runs to the next numbered
// top-level heading. When no such word exists, the first words of page one
// stand in for it.
package extract

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-assessor/pkg/types"
)

// DefaultFallbackWords is how many words of page one are kept when the
// document has no abstract heading.
const DefaultFallbackWords = 200

// ErrNoText is wrapped in a DocumentParseError when a document yields no
// usable text.
var ErrNoText = errors.New("no extractable text")

var (
	sectionHeading = regexp.MustCompile(`(?i)abstract`)

	// nextHeading matches a line that opens section 1, e.g. "\n1 Introduction"
	// or "\n1. Introduction".
	nextHeading = regexp.MustCompile(`\n[ \t]*1\.?[ \t]`)
)

// Extractor returns the abstract of a PDF document.
type Extractor struct {
	pages         PageSource
	validate      bool
	fallbackWords int
	logger        *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPageSource replaces the PDF reader.
func WithPageSource(src PageSource) Option {
	return func(e *Extractor) { e.pages = src }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// New returns an Extractor configured from cfg.
func New(cfg types.ExtractConfig, opts ...Option) *Extractor {
	e := &Extractor{
		validate:      cfg.Validate,
		fallbackWords: cfg.FallbackWords,
		logger:        zap.NewNop(),
	}
	if e.fallbackWords <= 0 {
		e.fallbackWords = DefaultFallbackWords
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pages == nil {
		e.pages = NewPDFReader(e.logger)
	}
	return e
}

// Extract reads the document at path and returns its abstract. Unreadable
// documents and documents without text fail with *types.DocumentParseError.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if e.validate {
		if err := Validate(path); err != nil {
			return "", &types.DocumentParseError{Path: path, Err: err}
		}
	}

	pages, err := e.pages.PageTexts(path)
	if err != nil {
		return "", &types.DocumentParseError{Path: path, Err: err}
	}

	abstract, found := Abstract(pages, e.fallbackWords)
	if abstract == "" {
		return "", &types.DocumentParseError{Path: path, Err: ErrNoText}
	}

	e.logger.Debug("abstract extracted",
		zap.String("path", path),
		zap.Int("pages", len(pages)),
		zap.Bool("heading_found", found),
		zap.Int("words", len(strings.Fields(abstract))))
	return abstract, nil
}

// Abstract picks the abstract out of page texts. It reports whether an
// abstract heading was found; when it was not, the result is the first
// fallbackWords words of the first page that has text, normally page one.
// A heading that yields only whitespace also falls back.
func Abstract(pages []string, fallbackWords int) (string, bool) {
	nonEmpty := make([]string, 0, len(pages))
	for _, p := range pages {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	text := strings.Join(nonEmpty, " ")

	if section := findSection(text); section != "" {
		return section, true
	}

	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return firstWords(p, fallbackWords), false
		}
	}
	return "", false
}

// findSection returns the trimmed text from the first "abstract" match up
// to the next numbered heading, or to the end of text when none follows.
func findSection(text string) string {
	loc := sectionHeading.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	start := loc[0]
	end := len(text)
	if next := nextHeading.FindStringIndex(text[start:]); next != nil {
		end = start + next[0]
	}
	return strings.TrimSpace(text[start:end])
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
