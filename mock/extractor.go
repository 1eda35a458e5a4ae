package mock

import (
	"context"

	"github.com/fwojciec/cabinet"
)

var _ cabinet.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of cabinet.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, url string) (*cabinet.Record, error)
}

func (e *Extractor) Extract(ctx context.Context, url string) (*cabinet.Record, error) {
	return e.ExtractFn(ctx, url)
}
