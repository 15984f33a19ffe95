package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubharvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// EntrezConfig holds settings shared by stages that talk to NCBI E-utilities.
type EntrezConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent with every E-utilities request, as NCBI asks.
	Email string `json:"email" yaml:"email"`

	// APIKey is an optional NCBI API key. With a key NCBI allows 10
	// requests per second instead of 3.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// SearchConfig holds settings for the discovery stage (ESearch).
type SearchConfig struct {
	EntrezConfig `yaml:",inline"`

	// Keywords are the search terms, queried one at a time.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// MinDate and MaxDate bound the publication date range
	// (YYYY/MM/DD, YYYY/MM, or YYYY). Both are required.
	MinDate string `json:"mindate" yaml:"mindate"`
	MaxDate string `json:"maxdate" yaml:"maxdate"`

	// RetMax is the page size for ESearch pagination (default 10000).
	RetMax int `json:"retmax" yaml:"retmax"`
}

// HarvestConfig holds settings for the fetch stage.
type HarvestConfig struct {
	EntrezConfig `yaml:",inline"`

	// Concurrency is the worker pool size (default 5). The pool size is
	// the admission control on concurrent outbound requests.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// UnitSize is the number of contiguous identifiers dispatched to one
	// worker as a single unit (default 1). Unit size sets the granularity
	// of failure reporting, not of success reporting.
	UnitSize int `json:"unit_size" yaml:"unit_size"`

	// Retries is the fetch attempt budget per identifier (default 3).
	Retries int `json:"retries" yaml:"retries"`

	// BackoffBase is the first retry delay; delay grows as
	// BackoffBase * 3^attempt (default 1s).
	BackoffBase time.Duration `json:"backoff_base" yaml:"backoff_base"`

	// OutputDir is the directory for the dataset and failure log.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ExportConfig holds settings for the classification/rendering stage.
type ExportConfig struct {
	// OutputDir is the directory the export artifacts are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ArchiveConfig holds settings for the SQLite archive stage.
type ArchiveConfig struct {
	// ArchiveDir is the directory containing harvest.db.
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Harvest HarvestConfig `json:"harvest" yaml:"harvest"`
	Export  ExportConfig  `json:"export" yaml:"export"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
}
