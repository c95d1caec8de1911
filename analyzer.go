package imgcrawl

// Analysis holds the references extracted from one page.
// Both slices are absolute http(s) URLs in document order, duplicates kept.
type Analysis struct {
	Links  []string
	Images []string
}

// Analyzer extracts hyperlinks and image sources from HTML.
type Analyzer interface {
	// Analyze parses body as HTML and resolves references against pageURL.
	// Parsing is tolerant. When the body cannot be read at all, Analyze
	// returns an empty Analysis together with an EPARSE error.
	Analyze(pageURL string, body []byte) (*Analysis, error)
}
