package mock

import "github.com/fwojciec/cabinet"

var _ cabinet.Converter = (*Converter)(nil)

// Converter is a mock implementation of cabinet.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
