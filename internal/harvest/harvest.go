// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest wires the pipeline together: load the seed page,
// extract candidate PDF links, resolve each against the base origin,
// and download them one at a time in document order.
package harvest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdf-harvester/internal/download"
	"github.com/pdiddy/pdf-harvester/internal/extract"
	"github.com/pdiddy/pdf-harvester/internal/ledger"
	"github.com/pdiddy/pdf-harvester/internal/page"
	"github.com/pdiddy/pdf-harvester/pkg/types"
)

// Result holds the outcome of one harvest run.
type Result struct {
	types.RunCounts

	// RunID identifies the run in the ledger, when one is attached.
	RunID string

	// Outcomes lists per-URL results in document order.
	Outcomes []types.Outcome
}

// HasFailures reports whether any download failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Run executes one harvest. A seed-page fetch failure skips extraction
// for the run and is not an error: the process reports it and exits
// cleanly, and the next run retries because no cache file was written.
// Individual download failures never stop the loop. The ledger store
// may be nil, which disables recording.
func Run(ctx context.Context, client *http.Client, parser extract.LinkParser, store *ledger.Store, cfg types.HarvestConfig, w io.Writer) (Result, error) {
	html, err := page.Load(client, cfg)
	if err != nil {
		logrus.Warnf("seed page unavailable: %v", err)
		io.WriteString(w, "seed page fetch failed, nothing to extract\n")
		return Result{}, nil
	}

	links, err := parser.PDFLinks(html)
	if err != nil {
		return Result{}, err
	}
	logrus.Infof("extracted %d candidate PDF links", len(links))

	result := Result{RunID: uuid.NewString()}
	if store != nil {
		if err := store.BeginRun(ctx, result.RunID, cfg.SeedURL); err != nil {
			return Result{}, err
		}
	}

	dl := download.New(client, cfg)
	attempted := 0
	for _, candidate := range links {
		// Already-absolute candidates are dropped, not fetched; only
		// origin-relative links are resolved against the base origin.
		// Deliberate: see the ignored_absolute counter in the summary.
		if download.IsAbsoluteURL(candidate) {
			logrus.Debugf("ignoring absolute candidate %s", candidate)
			result.IgnoredAbsolute++
			continue
		}

		if attempted > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		attempted++

		resolved := download.ResolveURL(candidate, cfg.BaseOrigin)
		outcome := dl.Download(resolved)
		result.Outcomes = append(result.Outcomes, outcome)
		report(w, outcome, &result.RunCounts)

		if store != nil {
			if err := store.RecordOutcome(ctx, result.RunID, outcome); err != nil {
				logrus.Warnf("ledger record failed: %v", err)
			}
		}
	}

	printSummary(w, result.RunCounts)

	if store != nil {
		if err := store.FinishRun(ctx, result.RunID, result.RunCounts); err != nil {
			logrus.Warnf("ledger finish failed: %v", err)
		}
	}
	return result, nil
}

// report prints one status line and bumps the matching counter.
func report(w io.Writer, o types.Outcome, counts *types.RunCounts) {
	switch o.Kind {
	case types.OutcomeDownloaded:
		counts.Downloaded++
		fmt.Fprintf(w, "downloaded: %s\n", o.Filename)
	case types.OutcomeSkippedExisting:
		counts.SkippedExisting++
		fmt.Fprintf(w, "skipped: %s (already exists)\n", o.Filename)
	case types.OutcomeSkippedNotPDF:
		counts.SkippedNotPDF++
		fmt.Fprintf(w, "skipped: %s (not a PDF)\n", o.URL)
	default:
		counts.Failed++
		fmt.Fprintf(w, "failed: %s (%s)\n", o.URL, o.Reason)
	}
}

func printSummary(w io.Writer, c types.RunCounts) {
	fmt.Fprintf(w, "\nHarvest summary: %d downloaded, %d already present, %d not PDF, %d failed, %d ignored (total: %d)\n",
		c.Downloaded, c.SkippedExisting, c.SkippedNotPDF, c.Failed, c.IgnoredAbsolute, c.Total())
}
