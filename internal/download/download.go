// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download fetches PDF documents and writes them to a local
// directory. Every attempt ends in exactly one Outcome value; failures
// are reported, not raised, so a batch continues past them.
package download

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdf-harvester/internal/httputil"
	"github.com/pdiddy/pdf-harvester/pkg/types"
)

const defaultChunkSize = 8 * 1024

// Downloader streams PDFs into a target directory, skipping files that
// already exist there.
type Downloader struct {
	client *http.Client
	cfg    types.HarvestConfig
}

// New returns a Downloader using the given client and configuration.
func New(client *http.Client, cfg types.HarvestConfig) *Downloader {
	return &Downloader{client: client, cfg: cfg}
}

// Download fetches url and writes the body to the download directory.
// The body is only read when the response declares application/pdf, and
// only written when no file with the resolved name exists yet. The
// existence check is filename-based: two URLs resolving to the same
// name produce one file.
func (d *Downloader) Download(url string) types.Outcome {
	req, err := httputil.NewRequest(url, d.cfg.HTTPConfig)
	if err != nil {
		return types.Outcome{URL: url, Kind: types.OutcomeFetchFailed, Reason: err.Error()}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return types.Outcome{URL: url, Kind: types.OutcomeFetchFailed, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.Outcome{
			URL:    url,
			Kind:   types.OutcomeFetchFailed,
			Reason: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "application/pdf") {
		logrus.Debugf("content type %q for %s, skipping", contentType, url)
		return types.Outcome{URL: url, Kind: types.OutcomeSkippedNotPDF}
	}

	filename := ResolveFilename(resp.Header, url)

	if err := os.MkdirAll(d.cfg.DownloadDir, 0o755); err != nil {
		return types.Outcome{
			URL:      url,
			Kind:     types.OutcomeError,
			Filename: filename,
			Reason:   fmt.Sprintf("creating directory %s: %v", d.cfg.DownloadDir, err),
		}
	}

	targetPath := filepath.Join(d.cfg.DownloadDir, filename)
	if _, err := os.Stat(targetPath); err == nil {
		return types.Outcome{URL: url, Kind: types.OutcomeSkippedExisting, Filename: filename}
	}

	if err := d.writeBody(resp.Body, targetPath); err != nil {
		return types.Outcome{
			URL:      url,
			Kind:     types.OutcomeError,
			Filename: filename,
			Reason:   err.Error(),
		}
	}

	return types.Outcome{URL: url, Kind: types.OutcomeDownloaded, Filename: filename}
}

// writeBody streams body to destPath in fixed-size chunks through a
// temporary file renamed into place on success, so an interrupted
// download never leaves a partial file under the final name.
func (d *Downloader) writeBody(body io.Reader, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".harvest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	chunkSize := d.cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	_, copyErr := io.CopyBuffer(tmpFile, body, make([]byte, chunkSize))
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
