// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders an assessment Report as text, JSON, or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-assessor/pkg/types"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Display limits for the text rendering.
const (
	titleChars    = 30
	abstractChars = 500
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "", "txt", "md":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q: use text, json, or yaml", s)
	}
}

// FormatForPath picks the format from a file extension. Unknown extensions
// get text.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Write renders r to w in format f. debug adds the intermediate results to
// text output; JSON and YAML always carry them.
func Write(w io.Writer, f Format, r *types.Report, debug bool) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	default:
		return WriteText(w, r, debug)
	}
}

// WriteFile writes r to path in the format implied by its extension.
func WriteFile(path string, r *types.Report, debug bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := Write(f, FormatForPath(path), r, debug); err != nil {
		f.Close()
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return f.Close()
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes r as YAML.
func WriteYAML(w io.Writer, r *types.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// WriteText writes the reference checks, then the final assessment, then,
// when debug is set, the abstract, queries, and first reference.
func WriteText(w io.Writer, r *types.Report, debug bool) error {
	var b strings.Builder

	heading(&b, "Reference Verification", "=")
	if len(r.Evaluation.Verification.Checks) == 0 {
		b.WriteString("No references were available for comparison.\n\n")
	}
	for _, c := range r.Evaluation.Verification.Checks {
		source := c.Source
		if source == "" {
			source = types.SourceUnknown
		}
		fmt.Fprintf(&b, "vs. %s...\n", runes(c.Reference, titleChars))
		fmt.Fprintf(&b, "  Reference Source: %s\n", source)
		b.WriteString("  Analysis:\n")
		b.WriteString(indent(c.Analysis, "    "))
		b.WriteString("\n")
	}

	heading(&b, "Final Assessment", "=")
	b.WriteString(strings.TrimRight(r.Evaluation.Assessment, "\n"))
	b.WriteString("\n")

	if debug {
		b.WriteString("\n")
		writeDebug(&b, r)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDebug(b *strings.Builder, r *types.Report) {
	heading(b, "Debug Information", "-")
	if r.FileName != "" {
		fmt.Fprintf(b, "File: %s\n", r.FileName)
	}
	fmt.Fprintf(b, "Abstract Length: %d words\n", r.AbstractWords)
	fmt.Fprintf(b, "Elapsed: %.1fs\n\n", r.ElapsedSeconds)

	b.WriteString("Generated Queries:\n")
	for _, q := range r.Queries {
		fmt.Fprintf(b, "  - %s\n", q)
	}

	fmt.Fprintf(b, "\nReferences Found: %d\n", len(r.References))
	if len(r.References) > 0 {
		b.WriteString("Sample Reference:\n")
		data, err := json.MarshalIndent(r.References[0], "  ", "  ")
		if err == nil {
			fmt.Fprintf(b, "  %s\n", data)
		}
	}

	b.WriteString("\nFull Abstract:\n")
	b.WriteString(runes(r.Abstract, abstractChars))
	b.WriteString("...\n")
}

func heading(b *strings.Builder, title, rule string) {
	fmt.Fprintf(b, "%s\n%s\n\n", title, strings.Repeat(rule, len(title)))
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// runes returns the first n runes of s.
func runes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
