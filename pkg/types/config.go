package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the catalog retrieval stage.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// Category is the catalog subject category to query (default "quant-ph").
	Category string `json:"category" yaml:"category"`

	// MaxResults is the number of entries requested per retrieval (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// RequestsPerSecond caps the sustained request rate against the
	// catalog host (default 10).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MinInterval is the minimum time between successful non-empty
	// retrieval runs (default 24h). ShouldRun skips retrieval inside it.
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval"`
}

// ExtractConfig holds settings for the text extraction stage.
type ExtractConfig struct {
	HTTPConfig `yaml:",inline"`
}

// SummaryConfig holds settings for the extractive summarizer.
type SummaryConfig struct {
	// BriefSentences is the short digest length (default 3).
	BriefSentences int `json:"brief_sentences" yaml:"brief_sentences"`

	// ExtendedSentences is the long digest length (default 10).
	ExtendedSentences int `json:"extended_sentences" yaml:"extended_sentences"`

	// Damping is the random-walk damping factor (default 0.85).
	Damping float64 `json:"damping" yaml:"damping"`

	// Tolerance is the convergence threshold for the stationary
	// distribution (default 1e-6).
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`

	// MaxIterations caps the power iteration (default 100).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// StopWords overrides the built-in English stop-word list when set.
	StopWords []string `json:"stop_words,omitempty" yaml:"stop_words,omitempty"`
}

// StoreConfig holds settings for the persistence store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "papers.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// WorkerConfig holds settings for the long-lived worker loop.
type WorkerConfig struct {
	// WakeInterval is the period between worker passes (default 1h).
	WakeInterval time.Duration `json:"wake_interval" yaml:"wake_interval"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Store   StoreConfig   `json:"store" yaml:"store"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Summary SummaryConfig `json:"summary" yaml:"summary"`
	Worker  WorkerConfig  `json:"worker" yaml:"worker"`
}
