// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-harvester/internal/extract"
	"github.com/pdiddy/pdf-harvester/internal/harvest"
	"github.com/pdiddy/pdf-harvester/internal/httputil"
	"github.com/pdiddy/pdf-harvester/internal/ledger"
	"github.com/pdiddy/pdf-harvester/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "pdf-harvester/0.1"
	defaultChunkSize = 8 * 1024
	defaultCacheFile = "page.html"
	defaultDir       = "pdfs"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetch the seed page and download its linked PDFs",
	Long: `Harvest fetches the seed page (or reuses the cached copy), extracts
links ending in .pdf, resolves them against the base origin, and downloads
each one. Existing files are skipped; responses without an application/pdf
content type are rejected. Individual failures are reported and the run
continues, always exiting cleanly.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().String("seed-url", "", "page to scan for PDF links (required)")
	harvestCmd.Flags().String("cache-file", defaultCacheFile, "local copy of the seed page; delete to force a refetch")
	harvestCmd.Flags().String("download-dir", defaultDir, "directory PDFs are written to")
	harvestCmd.Flags().String("base-origin", "", "origin prefixed onto relative links (default: the seed URL's origin)")
	harvestCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	harvestCmd.Flags().Duration("delay", 0, "delay between consecutive downloads")
	harvestCmd.Flags().Int("chunk-size", defaultChunkSize, "download copy buffer size in bytes")

	for flag, key := range map[string]string{
		"seed-url":     "seed_url",
		"cache-file":   "cache_file",
		"download-dir": "download_dir",
		"base-origin":  "base_origin",
		"timeout":      "timeout",
		"delay":        "download_delay",
		"chunk-size":   "chunk_size",
	} {
		viper.BindPFlag(key, harvestCmd.Flags().Lookup(flag))
	}

	rootCmd.AddCommand(harvestCmd)
}

// harvestConfig assembles the run configuration from config file,
// environment, and flags (flags win).
func harvestConfig() (types.HarvestConfig, error) {
	cfg := types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: defaultUserAgent,
		},
		SeedURL:       viper.GetString("seed_url"),
		CacheFile:     viper.GetString("cache_file"),
		DownloadDir:   viper.GetString("download_dir"),
		BaseOrigin:    viper.GetString("base_origin"),
		ChunkSize:     viper.GetInt("chunk_size"),
		DownloadDelay: viper.GetDuration("download_delay"),
	}
	if ua := viper.GetString("user_agent"); ua != "" {
		cfg.UserAgent = ua
	}

	if cfg.SeedURL == "" {
		return cfg, fmt.Errorf("seed URL is required (--seed-url, PDF_HARVESTER_SEED_URL, or config file)")
	}
	u, err := url.Parse(cfg.SeedURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return cfg, fmt.Errorf("seed URL %q is not an absolute http(s) URL", cfg.SeedURL)
	}
	if cfg.BaseOrigin == "" {
		cfg.BaseOrigin = u.Scheme + "://" + u.Host
	}
	return cfg, nil
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := harvestConfig()
	if err != nil {
		return err
	}

	var store *ledger.Store
	if path := ledgerPath(cmd); path != "" {
		store, err = ledger.NewStore(types.LedgerConfig{Path: path})
		if err != nil {
			return err
		}
		defer store.Close()
	}

	client := httputil.NewClient(cfg.HTTPConfig)

	// Download failures are reflected in the summary, not the exit code.
	_, err = harvest.Run(context.Background(), client, extract.NewParser(), store, cfg, os.Stdout)
	return err
}

func ledgerPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("ledger"); path != "" {
		return path
	}
	return viper.GetString("ledger_path")
}
