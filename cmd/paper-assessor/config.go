// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-assessor/internal/secrets"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// envPrefix namespaces every config key in the environment, e.g.
// PAPER_ASSESSOR_SEARCH_MAX_RESULTS.
const envPrefix = "PAPER_ASSESSOR"

// loadConfig layers defaults, the config file, the environment, and the
// secrets directory into a Config. It does not validate.
func loadConfig(v *viper.Viper, secretsDir string, warn io.Writer) (types.Config, error) {
	setDefaults(v, types.DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials also answer to their conventional unprefixed names.
	v.BindEnv("search.serpapi_key", envPrefix+"_SEARCH_SERPAPI_KEY", "SERPAPI_KEY")
	v.BindEnv("search.semantic_scholar_api_key", envPrefix+"_SEARCH_SEMANTIC_SCHOLAR_API_KEY", "SEMANTIC_SCHOLAR_API_KEY")
	v.BindEnv("search.openalex_email", envPrefix+"_SEARCH_OPENALEX_EMAIL", "OPENALEX_EMAIL")

	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}

	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv(c.LLM.Provider.EnvVar())
	}

	s, err := secrets.Load(secretsDir, warn)
	if err != nil {
		return types.Config{}, err
	}
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(warn, "Loaded secrets: %v\n", keys)
	}
	secrets.Apply(&c, s)

	return c, nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("llm.provider", string(d.LLM.Provider))
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.query_temperature", d.LLM.QueryTemperature)
	v.SetDefault("llm.verify_temperature", d.LLM.VerifyTemperature)
	v.SetDefault("llm.assess_temperature", d.LLM.AssessTemperature)

	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.user_agent", d.Search.UserAgent)
	v.SetDefault("search.scholarly", string(d.Search.Scholarly))
	v.SetDefault("search.max_results", d.Search.MaxResults)
	v.SetDefault("search.scholarly_delay", d.Search.ScholarlyDelay)
	v.SetDefault("search.serpapi_key", d.Search.SerpAPIKey)
	v.SetDefault("search.semantic_scholar_api_key", d.Search.SemanticScholarAPIKey)
	v.SetDefault("search.openalex_email", d.Search.OpenAlexEmail)

	v.SetDefault("extract.validate", d.Extract.Validate)
	v.SetDefault("extract.fallback_words", d.Extract.FallbackWords)

	v.SetDefault("evaluate.max_references", d.Evaluate.MaxReferences)
	v.SetDefault("evaluate.excerpt_chars", d.Evaluate.ExcerptChars)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.upload_dir", d.Server.UploadDir)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
