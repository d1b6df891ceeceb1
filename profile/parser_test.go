package profile_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/extract"
	"github.com/fwojciec/linkbot/goquery"
	"github.com/fwojciec/linkbot/mock"
	"github.com/fwojciec/linkbot/profile"
	"github.com/fwojciec/linkbot/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parsedAt = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func profileHTML(name string) string {
	return fmt.Sprintf(`<html><body><main>
<section><h1 class="text-heading-xlarge">%s</h1>
<div class="text-body-medium break-words">Engineer</div></section>
<section><div id="about"></div><div class="inline-show-more-text"><p>About %s</p></div></section>
</main></body></html>`, name, name)
}

// profiles serves one page per URL. URLs ending in "/ghost" have no name.
func profiles(_ context.Context, url string) (string, error) {
	if strings.HasSuffix(url, "/ghost") {
		return `<html><body><p>This profile is not available</p></body></html>`, nil
	}
	return profileHTML(url[strings.LastIndex(url, "/")+1:]), nil
}

// written collects profiles passed to the writer.
type written struct {
	mu   sync.Mutex
	byID map[string]*linkbot.ProfileDetails
}

func (w *written) writer() *mock.ProfileWriter {
	w.byID = make(map[string]*linkbot.ProfileDetails)
	return &mock.ProfileWriter{
		WriteProfileFn: func(_ context.Context, d *linkbot.ProfileDetails) error {
			w.mu.Lock()
			defer w.mu.Unlock()
			w.byID[d.ProfileURL] = d
			return nil
		},
	}
}

func browser(loader goquery.Loader) *mock.Browser {
	return &mock.Browser{
		NewPageFn: func(context.Context) (linkbot.Page, error) {
			return goquery.NewDocument("<html></html>", goquery.WithLoader(loader))
		},
		CloseFn: func() error { return nil },
	}
}

func newParser(w linkbot.ProfileWriter, launch func(context.Context) (linkbot.Browser, error)) *profile.Parser {
	return &profile.Parser{
		Launch:    launch,
		Extractor: extract.NewExtractor(resolve.New(nil), nil),
		Converter: &mock.Converter{ConvertFn: func(html string) (string, error) {
			return "md:" + html, nil
		}},
		Writer:      w,
		Pacer:       mock.NoPause(),
		Workers:     2,
		RetryDelays: []time.Duration{time.Millisecond},
		Now:         func() time.Time { return parsedAt },
	}
}

func urls(ids ...string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "https://www.linkedin.com/in/" + id
	}
	return out
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("parses every profile once", func(t *testing.T) {
		t.Parallel()

		// Given two workers and five profiles
		var w written
		var launches atomic.Int32
		p := newParser(w.writer(), func(context.Context) (linkbot.Browser, error) {
			launches.Add(1)
			return browser(profiles), nil
		})
		var events []linkbot.ParseProgress

		// When parsing
		res, err := p.Parse(context.Background(), urls("a", "b", "c", "d", "e"), func(e linkbot.ParseProgress) {
			events = append(events, e)
		})

		// Then every profile is written and reported
		require.NoError(t, err)
		assert.Equal(t, &profile.Result{Total: 5, Parsed: 5}, res)
		assert.Equal(t, int32(2), launches.Load())
		require.Len(t, w.byID, 5)
		d := w.byID["https://www.linkedin.com/in/c"]
		assert.Equal(t, "c", d.Name)
		assert.Equal(t, "Engineer", d.Headline)
		assert.Contains(t, d.About, "md:")
		assert.Contains(t, d.About, "About c")
		assert.Equal(t, parsedAt, d.ParsedAt)
		require.Len(t, events, 5)
		assert.Equal(t, 5, events[4].Completed)
		assert.Equal(t, 5, events[4].Total)
	})

	t.Run("counts profiles without a name as failed", func(t *testing.T) {
		t.Parallel()

		var w written
		p := newParser(w.writer(), func(context.Context) (linkbot.Browser, error) {
			return browser(profiles), nil
		})
		var failed []string

		res, err := p.Parse(context.Background(), urls("a", "ghost", "b"), func(e linkbot.ParseProgress) {
			if e.Error != nil {
				failed = append(failed, e.URL)
			}
		})

		require.NoError(t, err)
		assert.Equal(t, 2, res.Parsed)
		assert.Equal(t, 1, res.Failed)
		assert.Equal(t, urls("ghost"), failed)
		assert.NotContains(t, w.byID, "https://www.linkedin.com/in/ghost")
	})

	t.Run("retries navigation", func(t *testing.T) {
		t.Parallel()

		var w written
		var calls atomic.Int32
		flaky := func(ctx context.Context, url string) (string, error) {
			if calls.Add(1) == 1 {
				return "", errors.New("net::ERR_CONNECTION_RESET")
			}
			return profiles(ctx, url)
		}
		p := newParser(w.writer(), func(context.Context) (linkbot.Browser, error) {
			return browser(flaky), nil
		})
		p.Workers = 1

		res, err := p.Parse(context.Background(), urls("a"), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Parsed)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("logs in each worker once", func(t *testing.T) {
		t.Parallel()

		var w written
		p := newParser(w.writer(), func(context.Context) (linkbot.Browser, error) {
			return browser(profiles), nil
		})
		var logins atomic.Int32
		p.Login = func(context.Context, linkbot.Page) error {
			logins.Add(1)
			return nil
		}

		_, err := p.Parse(context.Background(), urls("a", "b", "c", "d"), nil)

		require.NoError(t, err)
		assert.Equal(t, int32(2), logins.Load())
	})

	t.Run("remaining workers take over from one that fails to start", func(t *testing.T) {
		t.Parallel()

		// Given the first launch fails
		var w written
		var launches atomic.Int32
		p := newParser(w.writer(), func(context.Context) (linkbot.Browser, error) {
			if launches.Add(1) == 1 {
				return nil, errors.New("chrome not found")
			}
			return browser(profiles), nil
		})
		var buf bytes.Buffer
		p.Logger = slog.New(slog.NewTextHandler(&buf, nil))

		// When parsing
		res, err := p.Parse(context.Background(), urls("a", "b", "c"), nil)

		// Then the other worker parses everything
		require.NoError(t, err)
		assert.Equal(t, 3, res.Parsed)
		assert.Contains(t, buf.String(), "worker failed to start")
	})

	t.Run("fails when no worker starts", func(t *testing.T) {
		t.Parallel()

		var w written
		p := newParser(w.writer(), func(context.Context) (linkbot.Browser, error) {
			return browser(profiles), nil
		})
		p.Login = func(context.Context, linkbot.Page) error {
			return linkbot.Errorf(linkbot.EUNAUTHORIZED, "login rejected")
		}

		res, err := p.Parse(context.Background(), urls("a", "b"), nil)

		assert.Equal(t, linkbot.EINTERNAL, linkbot.ErrorCode(err))
		assert.Contains(t, err.Error(), "login rejected")
		assert.Equal(t, 0, res.Parsed)
	})

	t.Run("write failure is counted", func(t *testing.T) {
		t.Parallel()

		w := &mock.ProfileWriter{WriteProfileFn: func(context.Context, *linkbot.ProfileDetails) error {
			return errors.New("disk full")
		}}
		p := newParser(w, func(context.Context) (linkbot.Browser, error) {
			return browser(profiles), nil
		})

		res, err := p.Parse(context.Background(), urls("a"), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Failed)
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		t.Parallel()

		var w written
		p := newParser(w.writer(), func(context.Context) (linkbot.Browser, error) {
			return browser(profiles), nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Parse(ctx, urls("a", "b"), nil)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		t.Parallel()

		p := newParser(nil, nil)

		res, err := p.Parse(context.Background(), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, &profile.Result{}, res)
	})
}

func TestParser_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("keeps details when the about section cannot be converted", func(t *testing.T) {
		t.Parallel()

		p := newParser(nil, nil)
		p.Converter = &mock.Converter{ConvertFn: func(string) (string, error) {
			return "", errors.New("boom")
		}}

		d, err := p.Snapshot(context.Background(), profileHTML("Anna Nowak"), "https://www.linkedin.com/in/anna?trk=1")

		require.NoError(t, err)
		assert.Equal(t, "Anna Nowak", d.Name)
		assert.Equal(t, "https://www.linkedin.com/in/anna", d.ProfileURL)
		assert.Empty(t, d.About)
	})

	t.Run("page without a name is not found", func(t *testing.T) {
		t.Parallel()

		p := newParser(nil, nil)

		_, err := p.Snapshot(context.Background(), "<html><body></body></html>", "https://www.linkedin.com/in/x")

		assert.Equal(t, linkbot.ENOTFOUND, linkbot.ErrorCode(err))
	})
}
