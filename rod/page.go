package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/input"
)

// DefaultNavTimeout bounds Navigate and Reload.
const DefaultNavTimeout = 30 * time.Second

// Compile-time interface verification.
var (
	_ linkbot.Page    = (*Page)(nil)
	_ linkbot.Element = (*Element)(nil)
)

// Page is a Chrome tab.
type Page struct {
	page       *rod.Page
	NavTimeout time.Duration
}

// Query runs s against the whole document without waiting.
func (p *Page) Query(ctx context.Context, s linkbot.Strategy) ([]linkbot.Element, error) {
	pg := p.page.Context(ctx)
	var (
		els rod.Elements
		err error
	)
	switch s.Lang {
	case linkbot.XPath:
		els, err = pg.ElementsX(s.Selector)
	default:
		els, err = pg.Elements(s.Selector)
	}
	if err != nil {
		return nil, mapErr(ctx, err)
	}
	return wrap(els), nil
}

// Navigate loads url and waits for the load event. Exceeding NavTimeout
// is an ETIMEOUT error.
func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.navigate(ctx, "navigate "+url, func(pg *rod.Page) error {
		return pg.Navigate(url)
	})
}

// Reload reloads the current document and waits for the load event.
func (p *Page) Reload(ctx context.Context) error {
	return p.navigate(ctx, "reload", func(pg *rod.Page) error {
		return pg.Reload()
	})
}

func (p *Page) navigate(ctx context.Context, op string, fn func(*rod.Page) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nctx, cancel := context.WithTimeout(ctx, p.navTimeout())
	defer cancel()

	pg := p.page.Context(nctx)
	err := fn(pg)
	if err == nil {
		err = pg.WaitLoad()
	}
	if err == nil {
		return nil
	}
	if ctx.Err() == nil && errors.Is(nctx.Err(), context.DeadlineExceeded) {
		return linkbot.Errorf(linkbot.ETIMEOUT, "%s: no load event within %s", op, p.navTimeout())
	}
	return fmt.Errorf("%s: %w", op, mapErr(ctx, err))
}

func (p *Page) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", mapErr(ctx, err)
	}
	return info.URL, nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", mapErr(ctx, err)
	}
	return html, nil
}

// ScrollBy scrolls the window vertically by dy pixels.
func (p *Page) ScrollBy(ctx context.Context, dy int) error {
	_, err := p.page.Context(ctx).Eval(`(dy) => window.scrollBy({top: dy, behavior: 'smooth'})`, dy)
	return mapErr(ctx, err)
}

func (p *Page) Close() error {
	return p.page.Close()
}

func (p *Page) navTimeout() time.Duration {
	if p.NavTimeout <= 0 {
		return DefaultNavTimeout
	}
	return p.NavTimeout
}

// Element is a node handle inside a Chrome tab.
type Element struct {
	el *rod.Element
}

func wrap(els rod.Elements) []linkbot.Element {
	out := make([]linkbot.Element, len(els))
	for i, el := range els {
		out[i] = &Element{el: el}
	}
	return out
}

// Query runs s relative to the element. XPath selectors should start with
// "." to stay inside it.
func (e *Element) Query(ctx context.Context, s linkbot.Strategy) ([]linkbot.Element, error) {
	el := e.el.Context(ctx)
	var (
		els rod.Elements
		err error
	)
	switch s.Lang {
	case linkbot.XPath:
		els, err = el.ElementsX(s.Selector)
	default:
		els, err = el.Elements(s.Selector)
	}
	if err != nil {
		return nil, mapErr(ctx, err)
	}
	return wrap(els), nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	if err != nil {
		return "", mapErr(ctx, err)
	}
	return text, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, mapErr(ctx, err)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	html, err := e.el.Context(ctx).HTML()
	if err != nil {
		return "", mapErr(ctx, err)
	}
	return html, nil
}

// Click dispatches a DOM click. Unlike a mouse click it cannot land on an
// overlay covering the element.
func (e *Element) Click(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(`() => this.click()`)
	return mapErr(ctx, err)
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(`() => this.scrollIntoView({block: 'center', behavior: 'smooth'})`)
	return mapErr(ctx, err)
}

func (e *Element) Clear(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return mapErr(ctx, err)
	}
	return mapErr(ctx, el.Input(""))
}

func (e *Element) Input(ctx context.Context, text string) error {
	return mapErr(ctx, e.el.Context(ctx).Input(text))
}

func (e *Element) PressEnter(ctx context.Context) error {
	return mapErr(ctx, e.el.Context(ctx).Type(input.Enter))
}

func (e *Element) Connected(ctx context.Context) (bool, error) {
	res, err := e.el.Context(ctx).Eval(`() => this.isConnected`)
	if err != nil {
		err = mapErr(ctx, err)
		if linkbot.ErrorCode(err) == linkbot.ESTALE {
			return false, nil
		}
		return false, err
	}
	return res.Value.Bool(), nil
}

// mapErr turns errors about detached nodes and destroyed documents into
// ESTALE and leaves context errors untouched.
func mapErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var notFound *rod.ObjectNotFoundError
	switch {
	case errors.As(err, &notFound),
		errors.Is(err, cdp.ErrObjNotFound),
		errors.Is(err, cdp.ErrCtxDestroyed),
		errors.Is(err, cdp.ErrCtxNotFound):
		return linkbot.Errorf(linkbot.ESTALE, "element detached: %v", err)
	}
	return err
}
