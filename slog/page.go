// Package slog provides logging decorators for linkbot services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkbot"
)

// Ensure LoggingPage implements linkbot.Page.
var _ linkbot.Page = (*LoggingPage)(nil)

// LoggingPage wraps a Page and logs navigation. Element lookups are logged
// at debug level only, they run many times per second while waiting.
type LoggingPage struct {
	next   linkbot.Page
	logger *slog.Logger
}

// NewLoggingPage creates a new LoggingPage.
func NewLoggingPage(next linkbot.Page, logger *slog.Logger) *LoggingPage {
	return &LoggingPage{next: next, logger: logger}
}

// Query delegates to the wrapped page.
func (p *LoggingPage) Query(ctx context.Context, s linkbot.Strategy) (els []linkbot.Element, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("query",
			"strategy", s.String(),
			"count", len(els),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Query(ctx, s)
}

// Navigate logs the URL being loaded and delegates to the wrapped page.
func (p *LoggingPage) Navigate(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		p.logger.Info("navigate",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Navigate(ctx, url)
}

// Reload logs the reload and delegates to the wrapped page.
func (p *LoggingPage) Reload(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		p.logger.Info("reload",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Reload(ctx)
}

func (p *LoggingPage) URL(ctx context.Context) (string, error) {
	return p.next.URL(ctx)
}

// HTML logs the size of the snapshot.
func (p *LoggingPage) HTML(ctx context.Context) (html string, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("page html",
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.HTML(ctx)
}

func (p *LoggingPage) ScrollBy(ctx context.Context, dy int) error {
	return p.next.ScrollBy(ctx, dy)
}

// Close delegates to the wrapped page.
func (p *LoggingPage) Close() error {
	return p.next.Close()
}
