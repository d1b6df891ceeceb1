package mock

import (
	"context"

	"github.com/fwojciec/linkbot"
)

var _ linkbot.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of linkbot.Pacer.
type Pacer struct {
	PauseFn func(ctx context.Context, d linkbot.Delay) error
}

func (p *Pacer) Pause(ctx context.Context, d linkbot.Delay) error {
	return p.PauseFn(ctx, d)
}

// NoPause returns a Pacer that returns immediately unless ctx is done.
func NoPause() *Pacer {
	return &Pacer{
		PauseFn: func(ctx context.Context, _ linkbot.Delay) error {
			return ctx.Err()
		},
	}
}
