// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package page fetches the seed page once and caches it on disk.
// Existence of the cache file alone gates refetching; there is no TTL.
package page

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdf-harvester/internal/httputil"
	"github.com/pdiddy/pdf-harvester/pkg/types"
)

// Load returns the seed page HTML. When the cache file is absent it
// fetches cfg.SeedURL and writes the body verbatim to cfg.CacheFile
// before reading it back; a fetch failure leaves the cache absent so
// the next run retries. When the cache file exists the network is not
// touched.
func Load(client *http.Client, cfg types.HarvestConfig) (string, error) {
	if _, err := os.Stat(cfg.CacheFile); os.IsNotExist(err) {
		if err := fetchToFile(client, cfg); err != nil {
			return "", err
		}
	} else {
		logrus.Debugf("using cached page %s", cfg.CacheFile)
	}

	data, err := os.ReadFile(cfg.CacheFile)
	if err != nil {
		return "", fmt.Errorf("reading cache file %s: %w", cfg.CacheFile, err)
	}
	return string(data), nil
}

// fetchToFile GETs the seed URL and appends the body to the cache file.
// The file is only created after a successful fetch.
func fetchToFile(client *http.Client, cfg types.HarvestConfig) error {
	req, err := httputil.NewRequest(cfg.SeedURL, cfg.HTTPConfig)
	if err != nil {
		return err
	}

	logrus.Infof("fetching seed page %s", cfg.SeedURL)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", cfg.SeedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetching %s: HTTP %d", cfg.SeedURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.SeedURL, err)
	}

	f, err := os.OpenFile(cfg.CacheFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening cache file %s: %w", cfg.CacheFile, err)
	}
	_, writeErr := f.Write(body)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("writing cache file %s: %w", cfg.CacheFile, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing cache file %s: %w", cfg.CacheFile, closeErr)
	}
	return nil
}
