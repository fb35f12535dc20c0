// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pdf-harvester/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// HarvestConfig holds settings for a harvest run.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// SeedURL is the page scanned for PDF links.
	SeedURL string `json:"seed_url" yaml:"seed_url"`

	// CacheFile is the local file the seed page body is saved to. Its
	// existence alone gates refetching; delete it to force a fresh fetch.
	CacheFile string `json:"cache_file" yaml:"cache_file"`

	// DownloadDir is the directory PDFs are written to (created if absent).
	DownloadDir string `json:"download_dir" yaml:"download_dir"`

	// BaseOrigin is prefixed onto relative candidate links
	// (e.g. "https://example.com").
	BaseOrigin string `json:"base_origin" yaml:"base_origin"`

	// ChunkSize is the copy buffer size for streaming downloads
	// (default 8 KiB).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// DownloadDelay is the delay between consecutive downloads (default 0).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`
}

// LedgerConfig holds settings for the outcome ledger.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty disables the ledger.
	Path string `json:"path" yaml:"path"`

	// MaxRuns is the default number of runs shown by report (default 10).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}
