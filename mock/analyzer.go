package mock

import "github.com/fwojciec/imgcrawl"

var _ imgcrawl.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of imgcrawl.Analyzer.
type Analyzer struct {
	AnalyzeFn func(pageURL string, body []byte) (*imgcrawl.Analysis, error)
}

func (a *Analyzer) Analyze(pageURL string, body []byte) (*imgcrawl.Analysis, error) {
	return a.AnalyzeFn(pageURL, body)
}
