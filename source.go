package cabinet

import (
	"strconv"
	"strings"
)

// Image element attributes consulted when choosing a source.
const (
	AttrSrc         = "src"
	AttrLazySrc     = "data-src"
	AttrSrcset      = "srcset"
	AttrLazySrcset  = "data-srcset"
	widthUnitSuffix = "w"
)

// AttrReader exposes element attributes. *goquery.Selection satisfies it.
type AttrReader interface {
	Attr(name string) (string, bool)
}

// SourceStrategy derives an image source from an element's attributes.
// It reports false when it cannot produce a usable value.
type SourceStrategy func(el AttrReader) (string, bool)

// SourceStrategies lists the strategies in precedence order.
var SourceStrategies = []SourceStrategy{
	LazySource,
	CandidateSetSource,
	PrimaryCandidateSetSource,
	PrimarySource,
}

// ImageSource returns the first source produced by SourceStrategies.
func ImageSource(el AttrReader) (string, bool) {
	for _, strategy := range SourceStrategies {
		if src, ok := strategy(el); ok {
			return src, true
		}
	}
	return "", false
}

// LazySource returns the lazy-load override attribute.
func LazySource(el AttrReader) (string, bool) {
	return attr(el, AttrLazySrc)
}

// CandidateSetSource picks the widest candidate from the lazy or regular
// candidate-set attribute, whichever is present first.
func CandidateSetSource(el AttrReader) (string, bool) {
	for _, name := range []string{AttrLazySrcset, AttrSrcset} {
		if set, ok := attr(el, name); ok {
			if src, ok := PickCandidate(set); ok {
				return src, true
			}
		}
	}
	return "", false
}

// PrimaryCandidateSetSource handles CMS output that puts a candidate set
// in the primary source attribute.
func PrimaryCandidateSetSource(el AttrReader) (string, bool) {
	src, ok := attr(el, AttrSrc)
	if !ok || !isCandidateSet(src) {
		return "", false
	}
	return PickCandidate(src)
}

// PrimarySource returns the primary source attribute unchanged.
func PrimarySource(el AttrReader) (string, bool) {
	return attr(el, AttrSrc)
}

// PickCandidate returns the URL with the largest width from a
// comma-separated candidate set such as "a.jpg 480w, b.jpg 1200w".
// Entries without a parseable width count as zero; ties keep the first entry.
func PickCandidate(set string) (string, bool) {
	var (
		best      string
		bestWidth = -1
	)
	for _, entry := range strings.Split(set, ",") {
		parts := strings.Fields(entry)
		if len(parts) == 0 {
			continue
		}
		width := 0
		if len(parts) > 1 {
			width = parseWidth(parts[1])
		}
		if width > bestWidth {
			best, bestWidth = parts[0], width
		}
	}
	return best, best != ""
}

func parseWidth(token string) int {
	n, _ := widthDescriptor(token)
	return n
}

// widthDescriptor parses a token such as "1200w".
func widthDescriptor(token string) (int, bool) {
	if !strings.HasSuffix(token, widthUnitSuffix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(token, widthUnitSuffix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// isCandidateSet reports whether a src value is a candidate set: at least
// one comma-separated entry ends in a width descriptor. A plain URL that
// happens to contain a comma is not a set.
func isCandidateSet(src string) bool {
	for _, entry := range strings.Split(src, ",") {
		parts := strings.Fields(entry)
		if len(parts) < 2 {
			continue
		}
		if _, ok := widthDescriptor(parts[len(parts)-1]); ok {
			return true
		}
	}
	return false
}

func attr(el AttrReader, name string) (string, bool) {
	v, ok := el.Attr(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
