//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `<!DOCTYPE html>
<html><body>
<ul class="results">
	<li class="entity"><a href="/in/jan?trk=x">Jan Kowalski</a><div>Engineer</div></li>
	<li class="entity"><a href="/in/anna">Anna Nowak</a></li>
</ul>
<input id="q" value="stale">
<button id="drop" onclick="document.querySelector('.results').remove()">drop</button>
<div id="rendered"></div>
<script>document.getElementById('rendered').textContent = 'JavaScript Rendered';</script>
</body></html>`

func newPage(t *testing.T, handler http.HandlerFunc) (linkbot.Page, string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := rod.NewBrowser(rod.WithHeadless(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	p, err := b.NewPage(context.Background())
	require.NoError(t, err)
	return p, srv.URL
}

func serve(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}
}

func TestPage_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, url := newPage(t, serve(fixture))
	require.NoError(t, p.Navigate(ctx, url))

	t.Run("queries by CSS and XPath", func(t *testing.T) {
		css, err := p.Query(ctx, linkbot.ByCSS("li.entity"))
		require.NoError(t, err)
		assert.Len(t, css, 2)

		xp, err := p.Query(ctx, linkbot.ByXPath("//li[contains(@class,'entity')]//a"))
		require.NoError(t, err)
		require.Len(t, xp, 2)
		href, ok, err := xp[0].Attribute(ctx, "href")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "/in/jan?trk=x", href)
	})

	t.Run("relative queries stay inside the element", func(t *testing.T) {
		items, err := p.Query(ctx, linkbot.ByCSS("li.entity"))
		require.NoError(t, err)

		links, err := items[1].Query(ctx, linkbot.ByXPath(".//a"))
		require.NoError(t, err)
		require.Len(t, links, 1)
		text, err := links[0].Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Anna Nowak", text)
	})

	t.Run("invalid selector is an error", func(t *testing.T) {
		_, err := p.Query(ctx, linkbot.ByCSS("li[[["))
		assert.Error(t, err)
	})

	t.Run("reads rendered HTML", func(t *testing.T) {
		html, err := p.HTML(ctx)
		require.NoError(t, err)
		assert.Contains(t, html, "JavaScript Rendered")

		u, err := p.URL(ctx)
		require.NoError(t, err)
		assert.Contains(t, u, url)
	})

	t.Run("clears and types", func(t *testing.T) {
		els, err := p.Query(ctx, linkbot.ByCSS("#q"))
		require.NoError(t, err)
		q := els[0]

		require.NoError(t, q.Clear(ctx))
		require.NoError(t, q.Input(ctx, "inżynier"))

		v, err := p.Query(ctx, linkbot.ByXPath("//input[@id='q']"))
		require.NoError(t, err)
		html, err := v[0].HTML(ctx)
		require.NoError(t, err)
		assert.NotContains(t, html, "stale")
	})
}

func TestElement_Connected_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, url := newPage(t, serve(fixture))
	require.NoError(t, p.Navigate(ctx, url))

	// Given a resolved list
	els, err := p.Query(ctx, linkbot.ByCSS(".results"))
	require.NoError(t, err)
	list := els[0]
	connected, err := list.Connected(ctx)
	require.NoError(t, err)
	require.True(t, connected)

	// When a click removes it from the page
	btn, err := p.Query(ctx, linkbot.ByCSS("#drop"))
	require.NoError(t, err)
	require.NoError(t, btn[0].ScrollIntoView(ctx))
	require.NoError(t, btn[0].Click(ctx))

	// Then the handle reports detachment
	connected, err = list.Connected(ctx)
	require.NoError(t, err)
	assert.False(t, connected)
}

func TestPage_Navigate_Integration(t *testing.T) {
	t.Parallel()

	t.Run("slow page is a timeout", func(t *testing.T) {
		t.Parallel()

		p, url := newPage(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		})
		p.(*rod.Page).NavTimeout = 500 * time.Millisecond

		err := p.Navigate(context.Background(), url)

		assert.Equal(t, linkbot.ETIMEOUT, linkbot.ErrorCode(err))
	})

	t.Run("honours cancellation", func(t *testing.T) {
		t.Parallel()

		p, url := newPage(t, serve(fixture))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Navigate(ctx, url)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("reloads and scrolls", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		p, url := newPage(t, serve(fixture))
		require.NoError(t, p.Navigate(ctx, url))

		require.NoError(t, p.ScrollBy(ctx, 300))
		require.NoError(t, p.Reload(ctx))
	})
}
