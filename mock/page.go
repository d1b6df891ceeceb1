package mock

import (
	"context"

	"github.com/fwojciec/linkbot"
)

// Compile-time interface verification.
var (
	_ linkbot.Page    = (*Page)(nil)
	_ linkbot.Element = (*Element)(nil)
	_ linkbot.Browser = (*Browser)(nil)
)

// Page is a mock implementation of linkbot.Page.
type Page struct {
	QueryFn    func(ctx context.Context, s linkbot.Strategy) ([]linkbot.Element, error)
	NavigateFn func(ctx context.Context, url string) error
	ReloadFn   func(ctx context.Context) error
	URLFn      func(ctx context.Context) (string, error)
	HTMLFn     func(ctx context.Context) (string, error)
	ScrollByFn func(ctx context.Context, dy int) error
	CloseFn    func() error
}

func (p *Page) Query(ctx context.Context, s linkbot.Strategy) ([]linkbot.Element, error) {
	return p.QueryFn(ctx, s)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.NavigateFn(ctx, url)
}

func (p *Page) Reload(ctx context.Context) error {
	return p.ReloadFn(ctx)
}

func (p *Page) URL(ctx context.Context) (string, error) {
	return p.URLFn(ctx)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) ScrollBy(ctx context.Context, dy int) error {
	return p.ScrollByFn(ctx, dy)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

// Element is a mock implementation of linkbot.Element.
type Element struct {
	QueryFn          func(ctx context.Context, s linkbot.Strategy) ([]linkbot.Element, error)
	TextFn           func(ctx context.Context) (string, error)
	AttributeFn      func(ctx context.Context, name string) (string, bool, error)
	HTMLFn           func(ctx context.Context) (string, error)
	ClickFn          func(ctx context.Context) error
	ScrollIntoViewFn func(ctx context.Context) error
	ClearFn          func(ctx context.Context) error
	InputFn          func(ctx context.Context, text string) error
	PressEnterFn     func(ctx context.Context) error
	ConnectedFn      func(ctx context.Context) (bool, error)
}

func (e *Element) Query(ctx context.Context, s linkbot.Strategy) ([]linkbot.Element, error) {
	return e.QueryFn(ctx, s)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.TextFn(ctx)
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	return e.AttributeFn(ctx, name)
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	return e.HTMLFn(ctx)
}

func (e *Element) Click(ctx context.Context) error {
	return e.ClickFn(ctx)
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	return e.ScrollIntoViewFn(ctx)
}

func (e *Element) Clear(ctx context.Context) error {
	return e.ClearFn(ctx)
}

func (e *Element) Input(ctx context.Context, text string) error {
	return e.InputFn(ctx, text)
}

func (e *Element) PressEnter(ctx context.Context) error {
	return e.PressEnterFn(ctx)
}

func (e *Element) Connected(ctx context.Context) (bool, error) {
	return e.ConnectedFn(ctx)
}

// Browser is a mock implementation of linkbot.Browser.
type Browser struct {
	NewPageFn func(ctx context.Context) (linkbot.Page, error)
	CloseFn   func() error
}

func (b *Browser) NewPage(ctx context.Context) (linkbot.Page, error) {
	return b.NewPageFn(ctx)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}
