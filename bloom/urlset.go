// Package bloom provides a cabinet.URLSet that answers most "not seen"
// queries from a Bloom filter before consulting an exact set.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/cabinet"
)

// Default sizing for one extraction; item pages carry a few dozen images.
const (
	DefaultExpected          = 256
	DefaultFalsePositiveRate = 0.01
)

// Ensure URLSet implements cabinet.URLSet at compile time.
var _ cabinet.URLSet = (*URLSet)(nil)

// URLSet is an exact set of URLs with a Bloom filter prefilter.
// A filter miss proves the URL is new; a filter hit is confirmed against
// the exact set, so Add never reports a false duplicate.
type URLSet struct {
	filter *bloom.BloomFilter
	exact  map[string]struct{}
}

// NewURLSet creates a URLSet sized for n expected URLs at the given
// false positive rate.
func NewURLSet(n uint, fpRate float64) *URLSet {
	return &URLSet{
		filter: bloom.NewWithEstimates(n, fpRate),
		exact:  make(map[string]struct{}, n),
	}
}

// Factory returns a constructor for fresh URLSets with the given sizing,
// suitable for goquery.WithURLSet.
func Factory(n uint, fpRate float64) func() cabinet.URLSet {
	return func() cabinet.URLSet {
		return NewURLSet(n, fpRate)
	}
}

// Add records url and reports whether it was not seen before.
func (s *URLSet) Add(url string) bool {
	if s.filter.TestString(url) {
		if _, ok := s.exact[url]; ok {
			return false
		}
	}
	s.filter.AddString(url)
	s.exact[url] = struct{}{}
	return true
}

// Len returns the number of distinct URLs added.
func (s *URLSet) Len() int {
	return len(s.exact)
}

// EstimatedCount returns the filter's approximation of Len.
func (s *URLSet) EstimatedCount() uint {
	return uint(s.filter.ApproximatedSize())
}
