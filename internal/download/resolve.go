// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
)

const pdfExt = ".pdf"

// extendedFilenamePattern matches the RFC 5987 extended parameter in a
// Content-Disposition value: filename*=UTF-8''report%20final.pdf.
var extendedFilenamePattern = regexp.MustCompile(`(?i)filename\*\s*=\s*[^']*''([^;\r\n]+)`)

// simpleFilenamePattern matches the plain parameter, quotes optional:
// filename="report.pdf" or filename=report.pdf.
var simpleFilenamePattern = regexp.MustCompile(`(?i)filename\s*=\s*"?([^";\r\n]+)"?`)

// nonAlnumPattern and underscoreRunPattern implement stem sanitization.
var (
	nonAlnumPattern      = regexp.MustCompile(`[^a-z0-9]`)
	underscoreRunPattern = regexp.MustCompile(`_+`)
)

// IsAbsoluteURL reports whether s parses as an absolute http or https
// URL with a non-empty host. Malformed input yields false; no network
// access is performed.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ResolveFilename derives the local filename for a download from the
// response headers and the source URL, in strict priority order: the
// RFC 5987 extended Content-Disposition parameter, then the simple
// filename parameter, then the last path segment of sourceURL (with
// ".pdf" appended when the segment lacks the extension). The result is
// always sanitized. Pure: no network or filesystem access.
func ResolveFilename(header http.Header, sourceURL string) string {
	disposition := header.Get("Content-Disposition")

	var filename string
	if m := extendedFilenamePattern.FindStringSubmatch(disposition); m != nil {
		filename = strings.Trim(strings.TrimSpace(m[1]), `"`)
	} else if m := simpleFilenamePattern.FindStringSubmatch(disposition); m != nil {
		filename = strings.Trim(strings.TrimSpace(m[1]), `"`)
	} else {
		filename = filenameFromURL(sourceURL)
	}

	return sanitizeFilename(filename)
}

// filenameFromURL returns the last path segment of rawURL, appending
// ".pdf" when the segment does not already end in it. The segment is
// taken from the escaped path, so percent-encoding survives into the
// filename and sanitization ("Alpha%20One.pdf" becomes
// "alpha_20one.pdf", not "alpha_one.pdf").
func filenameFromURL(rawURL string) string {
	segment := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		segment = u.EscapedPath()
	}
	name := path.Base(segment)
	if name == "." || name == "/" {
		name = ""
	}
	if !strings.HasSuffix(strings.ToLower(name), pdfExt) {
		name += pdfExt
	}
	return name
}

// sanitizeFilename restricts the stem to lower-case alphanumerics and
// single underscores and lower-cases the extension. The split is at the
// last dot. A stem that sanitizes to nothing becomes "download" so the
// result is never extension-only.
func sanitizeFilename(filename string) string {
	stem, ext := filename, ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		stem, ext = filename[:i], filename[i:]
	}

	stem = strings.ToLower(stem)
	stem = nonAlnumPattern.ReplaceAllString(stem, "_")
	stem = underscoreRunPattern.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "_")
	if stem == "" {
		stem = "download"
	}

	return stem + strings.ToLower(ext)
}

// ResolveURL turns a candidate link into an absolute URL by prefixing
// the configured base origin. Callers only pass candidates that failed
// IsAbsoluteURL; already-absolute links never reach the downloader.
func ResolveURL(candidate, baseOrigin string) string {
	return strings.TrimSuffix(baseOrigin, "/") + "/" + strings.TrimPrefix(candidate, "/")
}
