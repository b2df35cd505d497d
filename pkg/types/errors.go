// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is wrapped by Config.Validate when an API key is absent.
var ErrMissingCredential = errors.New("missing credential")

// DocumentParseError reports an unreadable, corrupt, or text-free PDF.
// It is fatal to the request.
type DocumentParseError struct {
	Path string
	Err  error
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("could not read document %s: %v", e.Path, e.Err)
}

func (e *DocumentParseError) Unwrap() error { return e.Err }

// QueryGenerationError reports that the language model could not be reached
// while generating queries. A malformed response is not an error; it falls
// back to heuristic queries instead.
type QueryGenerationError struct {
	Err error
}

func (e *QueryGenerationError) Error() string {
	return fmt.Sprintf("generating search queries: %v", e.Err)
}

func (e *QueryGenerationError) Unwrap() error { return e.Err }

// SearchUnavailableError reports a failure of one source for one query.
// The searcher logs it and treats the pair as having no results.
type SearchUnavailableError struct {
	Source string
	Query  string
	Err    error
}

func (e *SearchUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable for %q: %v", e.Source, e.Query, e.Err)
}

func (e *SearchUnavailableError) Unwrap() error { return e.Err }

// EvaluationError reports a failed language-model call during verification
// or assessment.
type EvaluationError struct {
	// Stage is "verification" or "assessment".
	Stage string

	// Reference is the title being verified; empty for the assessment stage.
	Reference string

	Err error
}

func (e *EvaluationError) Error() string {
	if e.Reference != "" {
		return fmt.Sprintf("%s against %q failed: %v", e.Stage, e.Reference, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
