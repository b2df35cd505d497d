// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: groq-api-key, gemini-api-key, serpapi-key,
// semantic-scholar-api-key, openalex-email.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-assessor/pkg/types"
)

// Key file names recognized by Apply.
const (
	KeyGroq            = "groq-api-key"
	KeyGemini          = "gemini-api-key"
	KeySerpAPI         = "serpapi-key"
	KeySemanticScholar = "semantic-scholar-api-key"
	KeyOpenAlexEmail   = "openalex-email"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on warn but do not abort.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills credentials that are still empty in cfg from loaded secrets.
// Values already set by the config file or environment win.
func Apply(cfg *types.Config, secrets map[string]string) {
	llmKey := KeyGroq
	if cfg.LLM.Provider == types.ProviderGemini {
		llmKey = KeyGemini
	}
	fill(&cfg.LLM.APIKey, secrets[llmKey])
	fill(&cfg.Search.SerpAPIKey, secrets[KeySerpAPI])
	fill(&cfg.Search.SemanticScholarAPIKey, secrets[KeySemanticScholar])
	fill(&cfg.Search.OpenAlexEmail, secrets[KeyOpenAlexEmail])
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
