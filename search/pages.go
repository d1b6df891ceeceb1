package search

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/resolve"
)

// ResultsPerPage is the number of people shown on one results page.
const ResultsPerPage = 10

var (
	resultCountRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d[\d\s,.\x{00a0}]*)\s+wynik`),
		regexp.MustCompile(`(?i)about\s+(\d[\d\s,.\x{00a0}]*)\s+results`),
		regexp.MustCompile(`(\d[\d,.]*)\s+results`),
	}
	pageStateRe = regexp.MustCompile(`(?:[Ss]trona|[Pp]age)\s+\d+\s+(?:z|of)\s+(\d+)`)
	nonDigitRe  = regexp.MustCompile(`\D`)
)

// ParseResultCount returns the number of results announced in text.
func ParseResultCount(text string) (int, bool) {
	for _, re := range resultCountRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(nonDigitRe.ReplaceAllString(m[1], ""))
		if err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// ParsePageState returns the page total from a "Page 1 of 7" indicator.
func ParsePageState(text string) (int, bool) {
	m := pageStateRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// TotalPages reads the number of result pages. It tries the result count,
// then the page indicator, then the last numbered page button, and falls
// back to DefaultMaxPages.
func (c *Collector) TotalPages(ctx context.Context) int {
	counts, _ := c.Resolver.All(ctx, c.Page, c.Selectors.ResultCount)
	for _, el := range counts {
		text, err := el.Text(ctx)
		if err != nil {
			continue
		}
		if n, ok := ParseResultCount(text); ok {
			pages := (n + ResultsPerPage - 1) / ResultsPerPage
			c.Logger.Info("total pages from result count", "results", n, "pages", pages)
			return pages
		}
	}

	if el, err := c.Resolver.First(ctx, c.Page, c.Selectors.PageState); err == nil {
		if text, err := el.Text(ctx); err == nil {
			if n, ok := ParsePageState(text); ok {
				c.Logger.Info("total pages from page indicator", "pages", n)
				return n
			}
		}
	}

	if buttons, _ := c.Resolver.All(ctx, c.Page, c.Selectors.PageButtons); len(buttons) > 0 {
		if text, err := buttons[len(buttons)-1].Text(ctx); err == nil {
			if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && n > 0 {
				c.Logger.Info("total pages from page buttons", "pages", n)
				return n
			}
		}
	}

	c.Logger.Warn("total pages unknown, using default", "pages", DefaultMaxPages)
	return DefaultMaxPages
}

// NextPage advances from page current. It reports false when there is no
// enabled next control. A click whose effect cannot be confirmed within
// NavTimeout is followed by navigating to the page URL directly.
func (c *Collector) NextPage(ctx context.Context, current int) (bool, error) {
	if err := c.Page.ScrollBy(ctx, scrollBottom); err != nil {
		if err := ctx.Err(); err != nil {
			return false, err
		}
	}
	if err := c.Pacer.Pause(ctx, linkbot.DelayClick); err != nil {
		return false, err
	}

	pagination, err := c.Resolver.First(ctx, c.Page, c.Selectors.Pagination, resolve.WithTimeout(c.waitTimeout()))
	if err := ctxErr(ctx, err); err != nil {
		return false, err
	}
	if err != nil {
		c.Logger.Debug("pagination not found", "err", err)
		pagination = nil
	}

	next, err := c.Resolver.First(ctx, c.Page, c.Selectors.Next)
	if err := ctxErr(ctx, err); err != nil {
		return false, err
	}
	if err != nil {
		c.Logger.Info("next page control not found", "page", current)
		return false, nil
	}
	if disabled(ctx, next) {
		c.Logger.Info("next page control disabled", "page", current)
		return false, nil
	}

	before, err := c.Page.URL(ctx)
	if err != nil {
		return false, err
	}
	if err := c.click(ctx, next); err != nil {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		c.Logger.Warn("next page click failed, using page URL", "err", err)
		return c.gotoPage(ctx, before, current+1)
	}

	advanced, err := c.waitAdvance(ctx, pagination, before)
	if err != nil {
		return false, err
	}
	if advanced {
		return true, nil
	}
	c.Logger.Warn("page change not confirmed, using page URL", "page", current+1)
	return c.gotoPage(ctx, before, current+1)
}

// scrollBottom scrolls far enough down to reach the pagination controls.
const scrollBottom = 1 << 20

// waitAdvance polls until the pagination element detaches or the URL
// changes.
func (c *Collector) waitAdvance(ctx context.Context, pagination linkbot.Element, before string) (bool, error) {
	deadline := time.Now().Add(c.navTimeout())
	for {
		if pagination != nil {
			if ok, err := pagination.Connected(ctx); err != nil || !ok {
				return true, nil
			}
		}
		if u, err := c.Page.URL(ctx); err == nil && u != before {
			return true, nil
		}
		if !time.Now().Before(deadline) {
			return false, nil
		}
		timer := time.NewTimer(min(c.pollInterval(), time.Until(deadline)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Collector) gotoPage(ctx context.Context, current string, n int) (bool, error) {
	target := PageURL(current, n)
	if err := c.Page.Navigate(ctx, target); err != nil {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		c.Logger.Warn("opening page URL failed", "url", target, "err", err)
		return false, nil
	}
	return true, nil
}

func (c *Collector) pollInterval() time.Duration {
	if c.Resolver != nil && c.Resolver.PollInterval > 0 {
		return c.Resolver.PollInterval
	}
	return resolve.DefaultPollInterval
}

// PageURL returns raw with its page query parameter set to n.
func PageURL(raw string, n int) string {
	u, err := url.Parse(raw)
	if err != nil {
		sep := "?"
		if strings.Contains(raw, "?") {
			sep = "&"
		}
		return raw + sep + "page=" + strconv.Itoa(n)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String()
}

// disabled reports whether a pagination control is inactive.
func disabled(ctx context.Context, el linkbot.Element) bool {
	if _, ok, err := el.Attribute(ctx, "disabled"); err == nil && ok {
		return true
	}
	if v, ok, err := el.Attribute(ctx, "aria-disabled"); err == nil && ok && v == "true" {
		return true
	}
	class, _, err := el.Attribute(ctx, "class")
	return err == nil && strings.Contains(class, "disabled")
}
