// Package profile parses full profile pages with a pool of browser workers.
//
// Each worker owns a browser and signs in once. URLs are shared through a
// single queue so a slow worker never holds up the others. Every profile is
// read from a snapshot of the rendered page: once the HTML is captured the
// browser is free for the next URL.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/extract"
	"github.com/fwojciec/linkbot/goquery"
	"github.com/fwojciec/linkbot/pace"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of browsers used when Workers is unset.
const DefaultWorkers = 3

// Parser visits profile pages and writes their details.
type Parser struct {
	// Launch starts a browser for one worker.
	Launch func(ctx context.Context) (linkbot.Browser, error)

	// Login signs a worker's first page in. Nil skips signing in.
	Login func(ctx context.Context, page linkbot.Page) error

	Extractor   *extract.Extractor
	Converter   linkbot.Converter
	Writer      linkbot.ProfileWriter
	Pacer       linkbot.Pacer
	Logger      *slog.Logger
	Workers     int
	RetryDelays []time.Duration
	Now         func() time.Time
}

// Result summarizes a parse run.
type Result struct {
	Total  int
	Parsed int
	Failed int
}

// Parse visits every URL once and writes the details of each profile.
// Failures of single profiles are counted and reported through progress;
// Parse only fails when ctx ends or no worker could start.
func (p *Parser) Parse(ctx context.Context, urls []string, progress linkbot.ParseProgressFunc) (*Result, error) {
	res := &Result{Total: len(urls)}
	if len(urls) == 0 {
		return res, nil
	}

	queue := make(chan string, len(urls))
	for _, u := range urls {
		queue <- u
	}
	close(queue)

	workers := min(p.workers(), len(urls))
	logger := p.logger()

	var (
		mu        sync.Mutex
		started   int
		startErrs []error
	)
	report := func(worker int, url string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			res.Failed++
		} else {
			res.Parsed++
		}
		if progress != nil {
			progress(linkbot.ParseProgress{
				URL:       url,
				Worker:    worker,
				Completed: res.Parsed + res.Failed,
				Total:     res.Total,
				Error:     err,
			})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := 1; w <= workers; w++ {
		g.Go(func() error {
			page, closeFn, err := p.startWorker(gctx, w)
			if err != nil {
				logger.Warn("worker failed to start", "worker", w, "err", err)
				mu.Lock()
				startErrs = append(startErrs, fmt.Errorf("worker %d: %w", w, err))
				mu.Unlock()
				return nil
			}
			defer closeFn()

			mu.Lock()
			started++
			mu.Unlock()

			for url := range queue {
				if err := gctx.Err(); err != nil {
					return err
				}
				err := p.parseOne(gctx, page, url)
				if err != nil {
					logger.Warn("profile failed", "worker", w, "url", url, "err", err)
				}
				report(w, url, err)
			}
			return nil
		})
	}
	err := g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if started == 0 {
		return res, linkbot.Errorf(linkbot.EINTERNAL, "no worker started: %v", errors.Join(startErrs...))
	}
	return res, err
}

// startWorker launches a browser, opens a page and signs it in. The
// returned func closes everything that was opened.
func (p *Parser) startWorker(ctx context.Context, worker int) (linkbot.Page, func(), error) {
	b, err := p.Launch(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}
	page, err := b.NewPage(ctx)
	if err != nil {
		_ = b.Close()
		return nil, nil, fmt.Errorf("opening page: %w", err)
	}
	closeFn := func() {
		_ = page.Close()
		_ = b.Close()
	}
	if p.Login != nil {
		if err := p.Login(ctx, page); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("logging in: %w", err)
		}
	}
	p.logger().Info("worker ready", "worker", worker)
	return page, closeFn, nil
}

// parseOne loads url, snapshots the rendered page and writes its details.
func (p *Parser) parseOne(ctx context.Context, page linkbot.Page, url string) error {
	err := pace.Retry(ctx, p.RetryDelays, func(ctx context.Context) error {
		return page.Navigate(ctx, url)
	}, func(attempt int, err error) {
		p.logger().Debug("retrying navigation", "url", url, "attempt", attempt, "err", err)
	})
	if err != nil {
		return fmt.Errorf("navigating: %w", err)
	}
	if err := p.Pacer.Pause(ctx, linkbot.DelayPageLoad); err != nil {
		return err
	}

	src, err := page.HTML(ctx)
	if err != nil {
		return fmt.Errorf("reading page: %w", err)
	}
	d, err := p.Snapshot(ctx, src, url)
	if err != nil {
		return err
	}
	if err := p.Writer.WriteProfile(ctx, d); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

// Snapshot extracts profile details from the HTML of a rendered profile
// page.
func (p *Parser) Snapshot(ctx context.Context, src, url string) (*linkbot.ProfileDetails, error) {
	doc, err := goquery.NewDocument(src, goquery.WithURL(url))
	if err != nil {
		return nil, linkbot.Errorf(linkbot.EINVALID, "parsing page: %v", err)
	}

	d := p.Extractor.Details(ctx, doc, url)
	if d.Name == "" {
		return nil, linkbot.Errorf(linkbot.ENOTFOUND, "no profile name on %s", url)
	}
	if about := p.Extractor.AboutHTML(ctx, doc); about != "" && p.Converter != nil {
		md, err := p.Converter.Convert(about)
		if err != nil {
			p.logger().Debug("about section not converted", "url", url, "err", err)
		} else {
			d.About = md
		}
	}
	d.ParsedAt = p.now()
	return d, nil
}

func (p *Parser) workers() int {
	if p.Workers <= 0 {
		return DefaultWorkers
	}
	return p.Workers
}

func (p *Parser) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

func (p *Parser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
