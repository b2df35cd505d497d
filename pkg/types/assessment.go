// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the value objects that flow through the assessment
// pipeline: extraction produces an abstract, query generation produces
// queries, search produces References, and evaluation produces Checks and
// the final Evaluation. None of them is mutated after construction.
package types

// Display names of the reference sources.
const (
	SourceGoogleScholar   = "Google Scholar"
	SourceSemanticScholar = "Semantic Scholar"
	SourceOpenAlex        = "OpenAlex"
	SourceArxiv           = "arXiv"
	SourceUnknown         = "Unknown"
)

// Reference is a candidate prior work returned by a search source.
// Duplicate titles across sources are kept as-is.
type Reference struct {
	// Title is the work's title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Content is the snippet or summary returned by the source.
	Content string `json:"content" yaml:"content"`

	// Source names the origin (e.g. "Google Scholar", "arXiv").
	Source string `json:"source" yaml:"source"`
}

// Check is one model-generated comparison between the new paper's abstract
// and a single reference.
type Check struct {
	// Reference is the compared reference's title.
	Reference string `json:"reference" yaml:"reference"`

	// Analysis is the verbatim model response to the novelty, methodology,
	// and contradiction questions.
	Analysis string `json:"analysis" yaml:"analysis"`

	// Source names where the reference came from.
	Source string `json:"source" yaml:"source"`
}

// Verification holds the per-reference checks and their concatenated summary.
type Verification struct {
	Checks  []Check `json:"checks" yaml:"checks"`
	Summary string  `json:"summary" yaml:"summary"`
}

// Evaluation is the terminal output of the pipeline.
type Evaluation struct {
	Verification Verification `json:"verification" yaml:"verification"`

	// Assessment is the verbatim final publishability verdict.
	Assessment string `json:"assessment" yaml:"assessment"`
}

// Report wraps an Evaluation with the intermediate results of each stage,
// for display and debugging.
type Report struct {
	// FileName is the uploaded file's original name, when known.
	FileName string `json:"file_name,omitempty" yaml:"file_name,omitempty"`

	Abstract      string      `json:"abstract" yaml:"abstract"`
	AbstractWords int         `json:"abstract_words" yaml:"abstract_words"`
	Queries       []string    `json:"queries" yaml:"queries"`
	References    []Reference `json:"references" yaml:"references"`
	Evaluation    Evaluation  `json:"evaluation" yaml:"evaluation"`

	// ElapsedSeconds is the wall-clock duration of the run.
	ElapsedSeconds float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
}
