// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-catalog/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the catalog fetcher.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the catalog search endpoint (default arXiv export API).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// RequestInterval is the minimum spacing between catalog API requests
	// (default 3s, the pacing arXiv asks clients to keep).
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`
}

// AIConfig holds shared settings for stages that call a chat-completion API.
type AIConfig struct {
	// BaseURL is the API root (default "https://api.openai.com/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the chat model identifier (e.g. "gpt-4").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature for extraction requests.
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// ExtractionConfig holds settings for the metadata extractor.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`

	// MaxPages caps how many leading PDF pages feed the prompt (default 5).
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// MaxPromptChars caps the text excerpt embedded in the prompt
	// (default 8000).
	MaxPromptChars int `json:"max_prompt_chars" yaml:"max_prompt_chars"`
}

// IngestConfig holds settings for the ingestion loop.
type IngestConfig struct {
	// PageSize is how many candidates each catalog fetch requests (default 25).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxAttempts is the page-fetch budget for one run (default 10).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// DownloadTimeout bounds each PDF download (default 20s).
	DownloadTimeout time.Duration `json:"download_timeout" yaml:"download_timeout"`

	// QueueSize is the capacity of the background run queue (default 4).
	QueueSize int `json:"queue_size" yaml:"queue_size"`
}

// StoreConfig holds settings for the publication store.
type StoreConfig struct {
	// Path is the SQLite database file (default "catalog.db").
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// PageSize is the default HTML page size (default 10).
	PageSize int `json:"page_size" yaml:"page_size"`

	// ListLimit is the default JSON listing limit (default 20).
	ListLimit int `json:"list_limit" yaml:"list_limit"`
}

// AppConfig groups all stage configurations.
type AppConfig struct {
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Ingest     IngestConfig     `json:"ingest" yaml:"ingest"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Server     ServerConfig     `json:"server" yaml:"server"`
}
