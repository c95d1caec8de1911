// Package goquery implements imgcrawl.Analyzer on top of goquery's tolerant
// HTML parser.
package goquery

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/imgcrawl"
)

// Ensure Analyzer implements imgcrawl.Analyzer at compile time.
var _ imgcrawl.Analyzer = (*Analyzer)(nil)

// referenceSelector matches every element the analyzer reads, so a single
// pass over the document yields links and images in document order.
const referenceSelector = "a[href], area[href], img[src]"

// Analyzer extracts hyperlink targets and image sources from HTML.
type Analyzer struct{}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze parses body and returns the resolved links and image URLs found in it.
// References are resolved against the document's <base href> when present,
// otherwise against pageURL. References that do not resolve to http(s) URLs
// are dropped.
func (a *Analyzer) Analyze(pageURL string, body []byte) (*imgcrawl.Analysis, error) {
	analysis := &imgcrawl.Analysis{}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return analysis, imgcrawl.WrapError(imgcrawl.EPARSE, err, "parse HTML of %s", pageURL)
	}

	base := documentBase(doc, pageURL)

	doc.Find(referenceSelector).Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "img" {
			src, _ := sel.Attr("src")
			if resolved, ok := imgcrawl.Resolve(base, src); ok {
				analysis.Images = append(analysis.Images, resolved)
			}
			return
		}

		href, _ := sel.Attr("href")
		if resolved, ok := imgcrawl.Resolve(base, href); ok {
			analysis.Links = append(analysis.Links, resolved)
		}
	})

	return analysis, nil
}

// documentBase returns the URL relative references resolve against.
func documentBase(doc *goquery.Document, pageURL string) string {
	href, exists := doc.Find("base[href]").First().Attr("href")
	if !exists {
		return pageURL
	}
	if resolved, ok := imgcrawl.Resolve(pageURL, href); ok {
		return resolved
	}
	return pageURL
}
