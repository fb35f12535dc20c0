// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/pdf-harvester/internal/extract"
	"github.com/pdiddy/pdf-harvester/internal/ledger"
	"github.com/pdiddy/pdf-harvester/pkg/types"
)

const fakePDFContent = "%PDF-1.4 fake"

// seedPage links two real PDFs, one non-PDF response, one broken link,
// and one already-absolute link that the pipeline must drop.
const seedPage = `<html><body>
<a href="/files/Alpha%20One.pdf">alpha</a>
<a href="https://elsewhere.example/skip.pdf">absolute</a>
<a href="/files/beta.pdf">beta</a>
<a href="/files/fake.pdf">fake</a>
<a href="/files/missing.pdf">missing</a>
</body></html>`

func newSiteServer(t *testing.T, seedFetches *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sds/":
			atomic.AddInt32(seedFetches, 1)
			fmt.Fprint(w, seedPage)
		case "/files/Alpha One.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, fakePDFContent)
		case "/files/beta.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="Beta Sheet.pdf"`)
			fmt.Fprint(w, fakePDFContent)
		case "/files/fake.pdf":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html>not a pdf</html>")
		default:
			http.NotFound(w, r)
		}
	}))
}

func harvestConfig(tsURL, dir string) types.HarvestConfig {
	return types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "pdf-harvester-test/0.1",
		},
		SeedURL:     tsURL + "/sds/",
		CacheFile:   filepath.Join(dir, "seed.html"),
		DownloadDir: filepath.Join(dir, "pdfs"),
		BaseOrigin:  tsURL,
	}
}

func TestRunEndToEnd(t *testing.T) {
	var seedFetches int32
	ts := newSiteServer(t, &seedFetches)
	defer ts.Close()

	cfg := harvestConfig(ts.URL, t.TempDir())
	var buf bytes.Buffer

	result, err := Run(context.Background(), ts.Client(), extract.NewParser(), nil, cfg, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := types.RunCounts{Downloaded: 2, SkippedNotPDF: 1, Failed: 1, IgnoredAbsolute: 1}
	if result.RunCounts != want {
		t.Errorf("counts = %+v, want %+v", result.RunCounts, want)
	}
	if result.RunID == "" {
		t.Error("RunID should be set")
	}

	for _, name := range []string{"alpha_20one.pdf", "beta_sheet.pdf"} {
		if _, err := os.Stat(filepath.Join(cfg.DownloadDir, name)); err != nil {
			t.Errorf("expected %s on disk: %v", name, err)
		}
	}

	out := buf.String()
	for _, line := range []string{
		"downloaded: alpha_20one.pdf",
		"downloaded: beta_sheet.pdf",
		"(not a PDF)",
		"failed:",
		"Harvest summary:",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	var seedFetches int32
	ts := newSiteServer(t, &seedFetches)
	defer ts.Close()

	cfg := harvestConfig(ts.URL, t.TempDir())
	ctx := context.Background()

	var first bytes.Buffer
	if _, err := Run(ctx, ts.Client(), extract.NewParser(), nil, cfg, &first); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	var second bytes.Buffer
	result, err := Run(ctx, ts.Client(), extract.NewParser(), nil, cfg, &second)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if result.Downloaded != 0 {
		t.Errorf("second run Downloaded = %d, want 0", result.Downloaded)
	}
	if result.SkippedExisting != 2 {
		t.Errorf("second run SkippedExisting = %d, want 2", result.SkippedExisting)
	}
	if got := atomic.LoadInt32(&seedFetches); got != 1 {
		t.Errorf("seed page fetched %d times, want 1 (cache file should gate refetching)", got)
	}
	if !strings.Contains(second.String(), "(already exists)") {
		t.Errorf("second run output missing skip lines:\n%s", second.String())
	}
}

func TestRunSeedFetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cfg := harvestConfig(ts.URL, t.TempDir())
	var buf bytes.Buffer

	result, err := Run(context.Background(), ts.Client(), extract.NewParser(), nil, cfg, &buf)
	if err != nil {
		t.Fatalf("Run should not error on seed fetch failure: %v", err)
	}
	if result.Total() != 0 {
		t.Errorf("Total = %d, want 0", result.Total())
	}
	if _, statErr := os.Stat(cfg.CacheFile); !os.IsNotExist(statErr) {
		t.Error("cache file should be absent after a failed seed fetch")
	}
	if !strings.Contains(buf.String(), "seed page fetch failed") {
		t.Errorf("output missing fetch-failure notice:\n%s", buf.String())
	}
}

func TestRunRecordsLedger(t *testing.T) {
	var seedFetches int32
	ts := newSiteServer(t, &seedFetches)
	defer ts.Close()

	dir := t.TempDir()
	cfg := harvestConfig(ts.URL, dir)

	store, err := ledger.NewStore(types.LedgerConfig{Path: filepath.Join(dir, "harvest.db")})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	var buf bytes.Buffer
	result, err := Run(ctx, ts.Client(), extract.NewParser(), store, cfg, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 0)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].ID != result.RunID {
		t.Errorf("run ID = %q, want %q", runs[0].ID, result.RunID)
	}
	if runs[0].RunCounts != result.RunCounts {
		t.Errorf("ledger counts = %+v, want %+v", runs[0].RunCounts, result.RunCounts)
	}

	outcomes, err := store.Outcomes(ctx, result.RunID)
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	// The absolute candidate never reaches the downloader, so four
	// outcomes are recorded for five candidates.
	if len(outcomes) != 4 {
		t.Errorf("len(outcomes) = %d, want 4", len(outcomes))
	}
}
