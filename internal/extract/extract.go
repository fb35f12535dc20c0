// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds PDF links in an HTML page.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const pdfSuffix = ".pdf"

// LinkParser enumerates candidate PDF hrefs in an HTML document.
// The default implementation is goquery-based; a stricter parser can be
// substituted without touching the pipeline.
type LinkParser interface {
	PDFLinks(html string) ([]string, error)
}

// Parser is the goquery-backed LinkParser.
type Parser struct{}

// NewParser returns the default lenient HTML parser.
func NewParser() *Parser {
	return &Parser{}
}

// PDFLinks returns the href value of every anchor whose percent-decoded
// href ends in ".pdf" (case-insensitive). The returned values are the
// original, non-decoded hrefs; decoding is used only for the suffix
// test, so "/docs/Report%2C1.pdf" is kept as-is. Document order and
// duplicates are preserved. Malformed markup is recovered from, not
// rejected.
func (p *Parser) PDFLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" {
			return
		}
		decoded, err := url.PathUnescape(href)
		if err != nil {
			// Invalid escape sequences: test the raw href instead.
			decoded = href
		}
		if strings.HasSuffix(strings.ToLower(decoded), pdfSuffix) {
			links = append(links, href)
		}
	})
	return links, nil
}
