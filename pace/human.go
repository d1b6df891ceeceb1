// Package pace spaces out browser interactions the way a person would.
package pace

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/fwojciec/linkbot"
	"golang.org/x/time/rate"
)

// MinScale is the smallest accepted Scale.
const MinScale = 0.1

// DefaultMinGap is the default minimum time between two pauses.
const DefaultMinGap = 50 * time.Millisecond

var _ linkbot.Pacer = (*Human)(nil)

// Human pauses for a random duration drawn uniformly from a Delay. Scale
// stretches or shrinks every delay. Consecutive pauses are never closer
// together than the limiter allows. Human is safe for concurrent use.
type Human struct {
	scale   float64
	limiter *rate.Limiter
}

// NewHuman returns a Human pacer. A scale below MinScale is raised to it.
// A non-positive minGap disables the floor.
func NewHuman(scale float64, minGap time.Duration) *Human {
	limit := rate.Inf
	if minGap > 0 {
		limit = rate.Every(minGap)
	}
	return &Human{
		scale:   max(scale, MinScale),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Scale returns the effective delay multiplier.
func (h *Human) Scale() float64 {
	return h.scale
}

// Duration draws a scaled duration from d.
func (h *Human) Duration(d linkbot.Delay) time.Duration {
	lo, hi := d.Min, d.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	dur := lo
	if span := hi - lo; span > 0 {
		dur += rand.N(span + 1)
	}
	return time.Duration(float64(dur) * h.scale)
}

func (h *Human) Pause(ctx context.Context, d linkbot.Delay) error {
	if err := h.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	dur := h.Duration(d)
	if dur <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
