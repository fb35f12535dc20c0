// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutcomeKind classifies the terminal result of one download attempt.
type OutcomeKind string

const (
	// OutcomeDownloaded means the PDF was fetched and written to disk.
	OutcomeDownloaded OutcomeKind = "downloaded"

	// OutcomeSkippedExisting means a file with the resolved name was
	// already present, so nothing was fetched or overwritten.
	OutcomeSkippedExisting OutcomeKind = "skipped_existing"

	// OutcomeSkippedNotPDF means the response content type was not
	// application/pdf; the body was not read and no file was created.
	OutcomeSkippedNotPDF OutcomeKind = "skipped_not_pdf"

	// OutcomeFetchFailed means the request failed at the transport level
	// or returned a non-2xx status.
	OutcomeFetchFailed OutcomeKind = "fetch_failed"

	// OutcomeError is the catch-all for filesystem or other faults
	// during a single download.
	OutcomeError OutcomeKind = "error"
)

// Outcome records the result of one download attempt. Downloads never
// propagate errors; every attempt produces exactly one Outcome and the
// pipeline moves on to the next URL.
type Outcome struct {
	// URL is the absolute URL that was attempted.
	URL string `json:"url" yaml:"url"`

	// Kind is the result classification.
	Kind OutcomeKind `json:"kind" yaml:"kind"`

	// Filename is the resolved local filename, when one was derived.
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`

	// Reason holds failure detail for fetch_failed and error outcomes.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}
