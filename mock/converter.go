package mock

import "github.com/fwojciec/linkbot"

var _ linkbot.Converter = (*Converter)(nil)

// Converter is a mock implementation of linkbot.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
