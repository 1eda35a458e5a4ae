package cabinet

import "context"

// Extractor turns the page at a URL into a Record.
type Extractor interface {
	// Extract fetches the page and runs every extraction stage over it.
	// Only a failure to fetch or parse the page itself is returned as an
	// error; auxiliary pages that fail are skipped.
	Extract(ctx context.Context, url string) (*Record, error)
}
