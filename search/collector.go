// Package search collects people search results page by page.
//
// Every valid record is appended to the store before the next result is
// read, so an interrupted run keeps everything collected up to that point.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/extract"
	"github.com/fwojciec/linkbot/resolve"
)

// Defaults for Collector settings left zero.
const (
	DefaultMaxPages    = 100
	DefaultWaitTimeout = 10 * time.Second
	DefaultNavTimeout  = 10 * time.Second
)

// PeopleSearchURL is the direct address of the people search view.
const PeopleSearchURL = "https://www.linkedin.com/search/results/people/"

// peopleMarker is present in the URL of every people results page.
const peopleMarker = "search/results/people"

// adKeywords mark promoted entries in the result list.
var adKeywords = []string{"premium", "reaktywuj", "reactivate", "anuluj w dowolnym momencie"}

// Collector drives the people search and persists every record it extracts.
type Collector struct {
	Page      linkbot.Page
	Resolver  *resolve.Resolver
	Extractor *extract.Extractor
	Store     linkbot.ProfileStore
	Pacer     linkbot.Pacer
	Selectors Selectors
	Logger    *slog.Logger

	HomeURL   string
	SearchURL string

	// MaxPages caps the number of result pages visited.
	MaxPages int

	// WaitTimeout bounds the wait for search controls and the result list.
	WaitTimeout time.Duration

	// NavTimeout bounds the wait for a next-page click to take effect.
	NavTimeout time.Duration
}

// NewCollector returns a Collector with default selectors and limits.
func NewCollector(page linkbot.Page, r *resolve.Resolver, store linkbot.ProfileStore, pacer linkbot.Pacer, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{
		Page:        page,
		Resolver:    r,
		Extractor:   extract.NewExtractor(r, logger),
		Store:       store,
		Pacer:       pacer,
		Selectors:   DefaultSelectors(),
		Logger:      logger,
		HomeURL:     linkbot.HomeURL,
		SearchURL:   PeopleSearchURL,
		MaxPages:    DefaultMaxPages,
		WaitTimeout: DefaultWaitTimeout,
		NavTimeout:  DefaultNavTimeout,
	}
}

// Collect searches for query and walks the people results. It returns the
// records persisted so far together with any error that stopped the run.
func (c *Collector) Collect(ctx context.Context, query string) ([]linkbot.ProfileRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, linkbot.Errorf(linkbot.EINVALID, "search query required")
	}

	if err := c.Search(ctx, query); err != nil {
		return nil, err
	}

	schema, items := c.plan(ctx)

	total := c.TotalPages(ctx)
	last := min(total, c.maxPages())
	c.Logger.Info("collecting profiles", "query", query, "pages", last, "store", c.Store.Path())

	var (
		all  []linkbot.ProfileRecord
		seen = make(map[string]bool)
	)
	for page := 1; page <= last; page++ {
		c.Logger.Info("processing page", "page", page, "of", last)

		recs, err := c.collectPage(ctx, schema, items, seen)
		all = append(all, recs...)
		if err != nil {
			return all, err
		}
		if len(recs) == 0 {
			c.Logger.Warn("no profiles on page, reloading", "page", page)
			if err := c.Page.Reload(ctx); err != nil {
				if err := ctx.Err(); err != nil {
					return all, err
				}
				c.Logger.Warn("reload failed", "err", err)
			}
			if err := c.Pacer.Pause(ctx, linkbot.DelayRetry); err != nil {
				return all, err
			}
			recs, err = c.collectPage(ctx, schema, items, seen)
			all = append(all, recs...)
			if err != nil {
				return all, err
			}
			if len(recs) == 0 {
				c.Logger.Warn("no profiles after reload, stopping", "page", page)
				break
			}
		}

		if page == last {
			break
		}
		ok, err := c.NextPage(ctx, page)
		if err != nil {
			return all, err
		}
		if !ok {
			c.Logger.Info("no next page", "page", page)
			break
		}
		if err := c.Pacer.Pause(ctx, linkbot.DelayPageLoad); err != nil {
			return all, err
		}
	}

	c.Logger.Info("collection finished", "query", query, "profiles", len(all), "store", c.Store.Path())
	return all, nil
}

// CollectCurrent extracts the results already shown on the page without
// searching or paginating, e.g. from a saved results page.
func (c *Collector) CollectCurrent(ctx context.Context) ([]linkbot.ProfileRecord, error) {
	schema, items := c.plan(ctx)
	return c.collectPage(ctx, schema, items, make(map[string]bool))
}

// plan discovers selectors on the current page and returns the record
// schema and the item strategies built from them.
func (c *Collector) plan(ctx context.Context) (extract.Schema, linkbot.StrategyList) {
	disc := c.Discover(ctx)
	items := c.Selectors.Items.Prepend(linkbot.ByCSS(disc.Item).Named("discovered item"))
	return extract.ProfileSchema(disc), items
}

// Search types query into the global search box and switches to the people
// view. When that does not reach the people results it opens the people
// search URL directly.
func (c *Collector) Search(ctx context.Context, query string) error {
	if err := c.Page.Navigate(ctx, c.HomeURL); err != nil {
		return fmt.Errorf("opening home page: %w", err)
	}
	if err := c.Pacer.Pause(ctx, linkbot.DelayPageLoad); err != nil {
		return err
	}

	if err := c.searchByTyping(ctx, query); err != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Logger.Warn("search box flow failed", "err", err)
	}
	if c.onPeopleResults(ctx) {
		return nil
	}

	direct := c.searchURL(query)
	c.Logger.Warn("people results not reached, navigating directly", "url", direct)
	if err := c.Page.Navigate(ctx, direct); err != nil {
		return fmt.Errorf("opening people search: %w", err)
	}
	if err := c.Pacer.Pause(ctx, linkbot.DelayPageLoad); err != nil {
		return err
	}
	if !c.onPeopleResults(ctx) {
		return linkbot.Errorf(linkbot.ENOTFOUND, "people search results for %q not reached", query)
	}
	return nil
}

func (c *Collector) searchByTyping(ctx context.Context, query string) error {
	input, err := c.Resolver.First(ctx, c.Page, c.Selectors.SearchInput, resolve.WithTimeout(c.waitTimeout()))
	if err != nil {
		return fmt.Errorf("search input: %w", err)
	}
	if err := c.click(ctx, input); err != nil {
		return err
	}
	if err := input.Clear(ctx); err != nil {
		return err
	}
	for _, r := range query {
		if err := input.Input(ctx, string(r)); err != nil {
			return err
		}
		if err := c.Pacer.Pause(ctx, linkbot.DelayKeystroke); err != nil {
			return err
		}
	}
	if err := c.Pacer.Pause(ctx, linkbot.DelayClick); err != nil {
		return err
	}
	if err := input.PressEnter(ctx); err != nil {
		return err
	}
	if err := c.Pacer.Pause(ctx, linkbot.DelayPageLoad); err != nil {
		return err
	}

	link, err := c.Resolver.First(ctx, c.Page, c.Selectors.PeopleLink, resolve.WithTimeout(c.waitTimeout()))
	if err != nil {
		return fmt.Errorf("people link: %w", err)
	}
	if err := c.click(ctx, link); err != nil {
		return err
	}
	return c.Pacer.Pause(ctx, linkbot.DelayPageLoad)
}

func (c *Collector) onPeopleResults(ctx context.Context) bool {
	u, err := c.Page.URL(ctx)
	return err == nil && strings.Contains(u, peopleMarker)
}

func (c *Collector) searchURL(query string) string {
	base := c.SearchURL
	if base == "" {
		base = PeopleSearchURL
	}
	return base + "?keywords=" + url.QueryEscape(query)
}

// Discover derives selectors from the classes of the first result item.
// Failure leaves the corresponding selector empty.
func (c *Collector) Discover(ctx context.Context) extract.Discovered {
	var d extract.Discovered

	if _, err := c.Resolver.First(ctx, c.Page, c.Selectors.ResultList, resolve.WithTimeout(c.waitTimeout())); err != nil {
		c.Logger.Debug("result list not found", "err", err)
	}
	item, err := c.Resolver.First(ctx, c.Page, c.Selectors.DiscoveryItem)
	if err != nil {
		c.Logger.Warn("selector discovery failed", "err", err)
		return d
	}

	if cls := firstClass(ctx, item); cls != "" {
		d.Item = "li." + cls
	}
	if el, err := c.Resolver.First(ctx, item, c.Selectors.TitleProbe); err == nil {
		if cls := firstClass(ctx, el); cls != "" {
			d.Title = "div." + cls
		}
	}
	if els, err := c.Resolver.All(ctx, item, c.Selectors.LocationProbe); err == nil && len(els) > 1 {
		if cls := firstClass(ctx, els[1]); cls != "" {
			d.Location = "div." + cls
		}
	}
	if el, err := c.Resolver.First(ctx, item, c.Selectors.SummaryProbe); err == nil {
		if cls := firstClass(ctx, el); cls != "" {
			d.Summary = "p." + cls
		}
	}

	c.Logger.Info("selectors discovered", "item", d.Item, "title", d.Title, "location", d.Location, "summary", d.Summary)
	return d
}

func firstClass(ctx context.Context, el linkbot.Element) string {
	class, ok, err := el.Attribute(ctx, "class")
	if err != nil || !ok {
		return ""
	}
	if fields := strings.Fields(class); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// collectPage extracts every result item on the current page and appends
// valid records to the store. On a store error it returns the records
// persisted before the failure.
func (c *Collector) collectPage(ctx context.Context, schema extract.Schema, items linkbot.StrategyList, seen map[string]bool) ([]linkbot.ProfileRecord, error) {
	if _, err := c.Resolver.First(ctx, c.Page, c.Selectors.ResultList, resolve.WithTimeout(c.waitTimeout())); err != nil {
		if err := ctxErr(ctx, err); err != nil {
			return nil, err
		}
		c.Logger.Debug("result list not found", "err", err)
	}

	elems, err := c.Resolver.All(ctx, c.Page, items)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("result items", "count", len(elems))

	var recs []linkbot.ProfileRecord
	for _, el := range elems {
		if err := ctx.Err(); err != nil {
			return recs, err
		}
		if reason := c.skipReason(ctx, el); reason != "" {
			c.Logger.Debug("skipping item", "reason", reason)
			continue
		}

		rec := c.Extractor.Profile(ctx, el, schema)
		if !rec.Valid() {
			c.Logger.Debug("skipping item", "reason", "no name or profile URL")
			continue
		}
		if rec.ProfileURL != "" {
			if seen[rec.ProfileURL] {
				continue
			}
			seen[rec.ProfileURL] = true
		}

		if err := c.Store.Append(ctx, rec); err != nil {
			return recs, fmt.Errorf("saving profile %q: %w", rec.Name, err)
		}
		recs = append(recs, *rec)
		c.Logger.Info("profile saved", "name", rec.Name, "title", rec.Title)

		if rand.Float64() < 0.3 {
			if err := c.Page.ScrollBy(ctx, 100+rand.IntN(200)); err != nil {
				c.Logger.Debug("scroll failed", "err", err)
			}
		}
	}
	return recs, nil
}

// skipReason returns why el is not a person result, or "".
func (c *Collector) skipReason(ctx context.Context, el linkbot.Element) string {
	text, err := el.Text(ctx)
	if err != nil {
		return "unreadable"
	}
	lower := strings.ToLower(text)
	for _, kw := range adKeywords {
		if strings.Contains(lower, kw) {
			return "advertisement"
		}
	}
	if links, err := c.Resolver.All(ctx, el, c.Selectors.ProfileLink); err != nil || len(links) == 0 {
		return "no profile link"
	}
	return ""
}

func (c *Collector) click(ctx context.Context, el linkbot.Element) error {
	if err := el.ScrollIntoView(ctx); err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return err
	}
	return c.Pacer.Pause(ctx, linkbot.DelayClick)
}

func (c *Collector) maxPages() int {
	if c.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return c.MaxPages
}

func (c *Collector) waitTimeout() time.Duration {
	if c.WaitTimeout <= 0 {
		return DefaultWaitTimeout
	}
	return c.WaitTimeout
}

func (c *Collector) navTimeout() time.Duration {
	if c.NavTimeout <= 0 {
		return DefaultNavTimeout
	}
	return c.NavTimeout
}

// ctxErr returns err only when it is the context's error.
func ctxErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
