// Package bloom provides the VisitedSet of a crawl run.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/imgcrawl"
)

// Ensure VisitedSet implements imgcrawl.VisitedSet at compile time.
var _ imgcrawl.VisitedSet = (*VisitedSet)(nil)

// VisitedSet tracks processed page URLs in a Bloom filter.
//
// A Bloom filter has no false negatives, so a URL that was added is always
// reported as visited and is never fetched twice. False positives are
// possible: with probability close to the configured rate, a URL that was
// never added is reported as visited and the page is skipped. The rate
// holds while the set stays below the expected size it was created with.
// It is not safe for concurrent use.
type VisitedSet struct {
	filter *bloom.BloomFilter
	n      int
}

// NewVisitedSet creates a VisitedSet sized for n expected URLs with the given
// false positive rate.
func NewVisitedSet(n uint, fpRate float64) *VisitedSet {
	return &VisitedSet{filter: bloom.NewWithEstimates(n, fpRate)}
}

// Add marks url as visited.
func (s *VisitedSet) Add(url string) {
	if !s.filter.TestAndAddString(url) {
		s.n++
	}
}

// Contains reports whether url may have been visited.
func (s *VisitedSet) Contains(url string) bool {
	return s.filter.TestString(url)
}

// Len returns the number of URLs added that the filter did not already
// report as present.
func (s *VisitedSet) Len() int {
	return s.n
}
