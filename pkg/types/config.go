// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds each outbound request.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-assessor/0.1").
	UserAgent string `mapstructure:"user_agent" json:"user_agent" yaml:"user_agent"`
}

// LLMProvider identifies the language-model service.
type LLMProvider string

const (
	ProviderGroq   LLMProvider = "groq"
	ProviderGemini LLMProvider = "gemini"
)

// EnvVar returns the environment variable that carries the provider's credential.
func (p LLMProvider) EnvVar() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

// LLMConfig holds settings for every stage that calls the language model.
type LLMConfig struct {
	// Provider selects the service: groq or gemini.
	Provider LLMProvider `mapstructure:"provider" json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "llama3-70b-8192").
	Model string `mapstructure:"model" json:"model" yaml:"model"`

	// APIKey is the credential for the provider.
	APIKey string `mapstructure:"api_key" json:"-" yaml:"-"`

	// BaseURL overrides the OpenAI-compatible endpoint root (groq only).
	BaseURL string `mapstructure:"base_url" json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout bounds each model call.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`

	// QueryTemperature is used when generating search queries.
	QueryTemperature float64 `mapstructure:"query_temperature" json:"query_temperature" yaml:"query_temperature"`

	// VerifyTemperature is used for each pairwise reference comparison.
	VerifyTemperature float64 `mapstructure:"verify_temperature" json:"verify_temperature" yaml:"verify_temperature"`

	// AssessTemperature is used for the final publishability assessment.
	AssessTemperature float64 `mapstructure:"assess_temperature" json:"assess_temperature" yaml:"assess_temperature"`
}

// ScholarlySource selects the backend used as the scholarly search source.
type ScholarlySource string

const (
	ScholarlySerpAPI         ScholarlySource = "serpapi"
	ScholarlySemanticScholar ScholarlySource = "semantic_scholar"
	ScholarlyOpenAlex        ScholarlySource = "openalex"
)

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `mapstructure:",squash" yaml:",inline"`

	// Scholarly selects the scholarly backend (default serpapi, i.e. Google Scholar).
	Scholarly ScholarlySource `mapstructure:"scholarly" json:"scholarly" yaml:"scholarly"`

	// MaxResults caps the results taken from each source for each query (default 2).
	MaxResults int `mapstructure:"max_results" json:"max_results" yaml:"max_results"`

	// ScholarlyDelay is waited before every scholarly call to respect rate limits (default 1s).
	ScholarlyDelay time.Duration `mapstructure:"scholarly_delay" json:"scholarly_delay" yaml:"scholarly_delay"`

	// SerpAPIKey authenticates Google Scholar queries through SerpAPI.
	SerpAPIKey string `mapstructure:"serpapi_key" json:"-" yaml:"-"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `mapstructure:"semantic_scholar_api_key" json:"-" yaml:"-"`

	// OpenAlexEmail is sent as mailto for the OpenAlex polite pool.
	OpenAlexEmail string `mapstructure:"openalex_email" json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
}

// ExtractConfig holds settings for abstract extraction.
type ExtractConfig struct {
	// Validate runs a structural PDF check before reading text.
	Validate bool `mapstructure:"validate" json:"validate" yaml:"validate"`

	// FallbackWords is how many words of page one are kept when no abstract is found (default 200).
	FallbackWords int `mapstructure:"fallback_words" json:"fallback_words" yaml:"fallback_words"`
}

// EvaluateConfig holds settings for the evaluation stage.
type EvaluateConfig struct {
	// MaxReferences is how many references are verified (default 5).
	MaxReferences int `mapstructure:"max_references" json:"max_references" yaml:"max_references"`

	// ExcerptChars is the length of the reference content excerpt sent to the model (default 500).
	ExcerptChars int `mapstructure:"excerpt_chars" json:"excerpt_chars" yaml:"excerpt_chars"`
}

// ServerConfig holds settings for the HTTP upload surface.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" json:"addr" yaml:"addr"`
	UploadDir       string        `mapstructure:"upload_dir" json:"upload_dir" yaml:"upload_dir"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes" json:"max_upload_bytes" yaml:"max_upload_bytes"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error, or off.
	Level string `mapstructure:"level" json:"level" yaml:"level"`

	// Format is console or json.
	Format string `mapstructure:"format" json:"format" yaml:"format"`
}

// Config groups every setting the assessor needs. It is populated once at
// process start and handed to each component's constructor.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm" json:"llm" yaml:"llm"`
	Search   SearchConfig   `mapstructure:"search" json:"search" yaml:"search"`
	Extract  ExtractConfig  `mapstructure:"extract" json:"extract" yaml:"extract"`
	Evaluate EvaluateConfig `mapstructure:"evaluate" json:"evaluate" yaml:"evaluate"`
	Server   ServerConfig   `mapstructure:"server" json:"server" yaml:"server"`
	Log      LogConfig      `mapstructure:"log" json:"log" yaml:"log"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Provider:          ProviderGroq,
			Model:             "llama3-70b-8192",
			Timeout:           60 * time.Second,
			QueryTemperature:  0.3,
			VerifyTemperature: 0.3,
			AssessTemperature: 0.2,
		},
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "paper-assessor/0.1",
			},
			Scholarly:      ScholarlySerpAPI,
			MaxResults:     2,
			ScholarlyDelay: time.Second,
		},
		Extract: ExtractConfig{
			FallbackWords: 200,
		},
		Evaluate: EvaluateConfig{
			MaxReferences: 5,
			ExcerptChars:  500,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxUploadBytes:  20 << 20,
			WriteTimeout:    10 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks that the required credentials are present and that enum
// fields hold known values. It reports the environment variable to set.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGroq, ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q: use groq or gemini", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: language-model API key not found; set %s in the environment or a .env file",
			ErrMissingCredential, c.LLM.Provider.EnvVar())
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is empty")
	}
	return c.ValidateSearch()
}

// ValidateSearch checks only the search section, for commands that never
// call the language model.
func (c Config) ValidateSearch() error {
	switch c.Search.Scholarly {
	case ScholarlySerpAPI:
		if c.Search.SerpAPIKey == "" {
			return fmt.Errorf("%w: search API key not found; set SERPAPI_KEY in the environment or a .env file",
				ErrMissingCredential)
		}
	case ScholarlySemanticScholar, ScholarlyOpenAlex:
	default:
		return fmt.Errorf("unknown scholarly source %q: use serpapi, semantic_scholar, or openalex", c.Search.Scholarly)
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search max_results must be positive, got %d", c.Search.MaxResults)
	}
	return nil
}
