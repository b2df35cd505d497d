// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-assessor/pkg/types"
)

// QueryFile is the on-disk representation of a set of queries and,
// optionally, the references they returned. Queries can be saved by the
// queries command and replayed later by the search command.
type QueryFile struct {
	Source  string            `yaml:"source,omitempty"`
	Queries []string          `yaml:"queries"`
	Results []types.Reference `yaml:"results,omitempty"`
	Summary QuerySummary      `yaml:"summary"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves queries and results to a YAML file. source names the
// document the queries came from and may be empty.
func WriteQueryFile(path, source string, queries []string, results []types.Reference) error {
	qf := QueryFile{
		Source:  source,
		Queries: queries,
		Results: results,
		Summary: QuerySummary{
			Total:     len(results),
			Timestamp: time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	if len(qf.Queries) == 0 {
		return nil, fmt.Errorf("query file %s has no queries", path)
	}
	return &qf, nil
}
