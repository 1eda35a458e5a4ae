package cabinet

import "context"

// Fetcher retrieves the raw markup of a page.
type Fetcher interface {
	// Fetch issues a single request for the URL and returns the response body.
	// A response other than 200 OK is an EUNAVAILABLE error.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
