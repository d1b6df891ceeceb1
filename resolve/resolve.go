// Package resolve locates elements by trying an ordered list of strategies.
//
// Markup on the target site drifts between releases and locales, so every
// element is described by several strategies mixing CSS and XPath. The first
// strategy that matches anything wins. Query errors (an invalid selector, a
// stale scope, a transient engine failure) count as "no match" and never
// stop the evaluation of later strategies.
package resolve

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkbot"
)

// DefaultPollInterval is how often a strategy is retried while waiting.
const DefaultPollInterval = 250 * time.Millisecond

// Resolver evaluates strategy lists against a scope.
// Resolver is safe for concurrent use.
type Resolver struct {
	PollInterval time.Duration
	Logger       *slog.Logger
}

// New returns a Resolver with default settings.
func New(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		PollInterval: DefaultPollInterval,
		Logger:       logger,
	}
}

// Match is the outcome of a successful resolution.
type Match struct {
	Strategy linkbot.Strategy
	Elements []linkbot.Element
}

// First returns the first element of the match.
func (m *Match) First() linkbot.Element {
	return m.Elements[0]
}

type options struct {
	timeout time.Duration
	limit   int
}

// Option configures a single resolution.
type Option func(*options)

// WithTimeout makes each strategy poll for up to d before the next strategy
// is tried. Without it every strategy is evaluated once.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLimit truncates the match set to at most n elements.
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// Resolve returns the match set of the first strategy in list that yields
// at least one element. It returns ENOTFOUND when no strategy matches and
// the context error when ctx ends first.
func (r *Resolver) Resolve(ctx context.Context, scope linkbot.Scope, list linkbot.StrategyList, opts ...Option) (*Match, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	for _, s := range list {
		elems, err := r.try(ctx, scope, s, o.timeout)
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			continue
		}
		if o.limit > 0 && len(elems) > o.limit {
			elems = elems[:o.limit]
		}
		r.logger().Debug("resolved", "strategy", s.String(), "count", len(elems))
		return &Match{Strategy: s, Elements: elems}, nil
	}
	return nil, linkbot.Errorf(linkbot.ENOTFOUND, "no strategy matched (%d tried)", len(list))
}

// First returns the first element of the first satisfiable strategy.
func (r *Resolver) First(ctx context.Context, scope linkbot.Scope, list linkbot.StrategyList, opts ...Option) (linkbot.Element, error) {
	m, err := r.Resolve(ctx, scope, list, append(opts, WithLimit(1))...)
	if err != nil {
		return nil, err
	}
	return m.First(), nil
}

// All returns every element of the first satisfiable strategy, or nil when
// nothing matches. Only context errors are returned.
func (r *Resolver) All(ctx context.Context, scope linkbot.Scope, list linkbot.StrategyList, opts ...Option) ([]linkbot.Element, error) {
	m, err := r.Resolve(ctx, scope, list, opts...)
	if linkbot.ErrorCode(err) == linkbot.ENOTFOUND {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return m.Elements, nil
}

// try evaluates one strategy, polling until timeout when one is set. It
// only returns an error when ctx ends.
func (r *Resolver) try(ctx context.Context, scope linkbot.Scope, s linkbot.Strategy, timeout time.Duration) ([]linkbot.Element, error) {
	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		elems, err := scope.Query(ctx, s)
		if err == nil && len(elems) > 0 {
			return elems, nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			r.logger().Debug("strategy failed", "strategy", s.String(), "err", err)
		}
		if timeout <= 0 || !time.Now().Before(deadline) {
			return nil, nil
		}

		wait := min(r.pollInterval(), time.Until(deadline))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Resolver) pollInterval() time.Duration {
	if r.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return r.PollInterval
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
