// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across the pipeline.
package httputil

import (
	"fmt"
	"net/http"

	"github.com/pdiddy/pdf-harvester/pkg/types"
)

// NewClient builds the HTTP client used for the seed-page fetch and for
// PDF downloads. Redirect following is left at the default.
func NewClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
	}
}

// NewRequest creates a GET request with the configured User-Agent set.
func NewRequest(url string, cfg types.HTTPConfig) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	return req, nil
}
