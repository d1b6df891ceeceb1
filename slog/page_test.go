package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/mock"
	lbslog "github.com/fwojciec/linkbot/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPage_Navigate(t *testing.T) {
	t.Parallel()

	t.Run("logs url and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var got string
		inner := &mock.Page{
			NavigateFn: func(_ context.Context, url string) error {
				got = url
				return nil
			},
		}

		page := lbslog.NewLoggingPage(inner, logger)
		err := page.Navigate(context.Background(), "https://www.linkedin.com/feed/")

		require.NoError(t, err)
		assert.Equal(t, "https://www.linkedin.com/feed/", got)
		output := buf.String()
		assert.Contains(t, output, "msg=navigate")
		assert.Contains(t, output, "url=https://www.linkedin.com/feed/")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Page{
			NavigateFn: func(context.Context, string) error {
				return errors.New("net::ERR_NAME_NOT_RESOLVED")
			},
		}

		page := lbslog.NewLoggingPage(inner, logger)
		err := page.Navigate(context.Background(), "https://www.linkedin.com/")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=net::ERR_NAME_NOT_RESOLVED")
	})
}

func TestLoggingPage_Query(t *testing.T) {
	t.Parallel()

	t.Run("logs at debug level only", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Page{
			QueryFn: func(context.Context, linkbot.Strategy) ([]linkbot.Element, error) {
				return []linkbot.Element{&mock.Element{}}, nil
			},
		}

		page := lbslog.NewLoggingPage(inner, logger)
		els, err := page.Query(context.Background(), linkbot.ByCSS("li"))

		require.NoError(t, err)
		assert.Len(t, els, 1)
		assert.Empty(t, buf.String())
	})

	t.Run("debug output names the strategy", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Page{
			QueryFn: func(context.Context, linkbot.Strategy) ([]linkbot.Element, error) {
				return nil, nil
			},
		}

		page := lbslog.NewLoggingPage(inner, logger)
		_, err := page.Query(context.Background(), linkbot.ByCSS("li.entity"))

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "li.entity")
		assert.Contains(t, buf.String(), "count=0")
	})
}

func TestLoggingPage_Delegates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	var reloaded, closed bool
	var scrolled int
	inner := &mock.Page{
		ReloadFn:   func(context.Context) error { reloaded = true; return nil },
		URLFn:      func(context.Context) (string, error) { return "https://www.linkedin.com/in/x", nil },
		HTMLFn:     func(context.Context) (string, error) { return "<html></html>", nil },
		ScrollByFn: func(_ context.Context, dy int) error { scrolled = dy; return nil },
		CloseFn:    func() error { closed = true; return nil },
	}
	page := lbslog.NewLoggingPage(inner, logger)
	ctx := context.Background()

	require.NoError(t, page.Reload(ctx))
	u, err := page.URL(ctx)
	require.NoError(t, err)
	html, err := page.HTML(ctx)
	require.NoError(t, err)
	require.NoError(t, page.ScrollBy(ctx, 250))
	require.NoError(t, page.Close())

	assert.True(t, reloaded)
	assert.Equal(t, "https://www.linkedin.com/in/x", u)
	assert.Equal(t, "<html></html>", html)
	assert.Equal(t, 250, scrolled)
	assert.True(t, closed)
	assert.Contains(t, buf.String(), "msg=reload")
}
