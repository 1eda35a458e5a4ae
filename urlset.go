package cabinet

// URLSet tracks image URLs already collected during one extraction.
// Implementations are not safe for concurrent use; each extraction owns
// its own set.
type URLSet interface {
	// Add records url and reports whether it was not seen before.
	Add(url string) bool
}

// NewURLSet returns an exact, map-backed URLSet.
func NewURLSet() URLSet {
	return make(mapURLSet)
}

type mapURLSet map[string]struct{}

func (s mapURLSet) Add(url string) bool {
	if _, ok := s[url]; ok {
		return false
	}
	s[url] = struct{}{}
	return true
}
