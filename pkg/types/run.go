// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunCounts aggregates per-outcome counters for one harvest run.
type RunCounts struct {
	Downloaded      int `json:"downloaded" yaml:"downloaded"`
	SkippedExisting int `json:"skipped_existing" yaml:"skipped_existing"`
	SkippedNotPDF   int `json:"skipped_not_pdf" yaml:"skipped_not_pdf"`
	Failed          int `json:"failed" yaml:"failed"`

	// IgnoredAbsolute counts candidate links dropped because they were
	// already absolute URLs and therefore never reached the downloader.
	IgnoredAbsolute int `json:"ignored_absolute" yaml:"ignored_absolute"`
}

// Total returns the number of candidate links processed.
func (c RunCounts) Total() int {
	return c.Downloaded + c.SkippedExisting + c.SkippedNotPDF + c.Failed + c.IgnoredAbsolute
}

// RunRecord is one harvest run as stored in the ledger.
type RunRecord struct {
	ID        string    `json:"id" yaml:"id"`
	SeedURL   string    `json:"seed_url" yaml:"seed_url"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	// FinishedAt is zero for runs that never completed.
	FinishedAt time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`

	RunCounts `yaml:",inline"`
}
