package goquery

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/fwojciec/linkbot"
	"golang.org/x/net/html"
)

// Compile-time interface verification.
var (
	_ linkbot.Page    = (*Document)(nil)
	_ linkbot.Element = (*Element)(nil)
)

// Loader returns the HTML served at url.
type Loader func(ctx context.Context, url string) (string, error)

// Handler reacts to an interaction with an element. Handlers may mutate the
// tree through the element's node or replace the document with Load.
type Handler func(ctx context.Context, doc *Document, el *Element) error

// Option configures a Document.
type Option func(*Document)

// WithURL sets the URL reported for the initial HTML.
func WithURL(url string) Option {
	return func(d *Document) {
		d.url = url
	}
}

// WithLoader sets the function used by Navigate and Reload.
func WithLoader(l Loader) Option {
	return func(d *Document) {
		d.loader = l
	}
}

// WithClickHandler sets the handler invoked by Element.Click.
func WithClickHandler(h Handler) Option {
	return func(d *Document) {
		d.onClick = h
	}
}

// WithEnterHandler sets the handler invoked by Element.PressEnter.
func WithEnterHandler(h Handler) Option {
	return func(d *Document) {
		d.onEnter = h
	}
}

// Document is a parsed HTML page that implements linkbot.Page without a
// browser. CSS strategies run through goquery and cascadia, XPath strategies
// through htmlquery. Interactions are delegated to optional handlers, which
// lets saved pages be replayed and site behaviour be scripted.
//
// A Document is not safe for concurrent use.
type Document struct {
	mu      sync.Mutex
	root    *html.Node
	url     string
	scrollY int

	loader  Loader
	onClick Handler
	onEnter Handler
}

// NewDocument parses src into a Document.
func NewDocument(src string, opts ...Option) (*Document, error) {
	d := &Document{}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.Load(src); err != nil {
		return nil, err
	}
	return d, nil
}

// Load replaces the document content. Elements obtained before Load are
// detached and report ESTALE.
func (d *Document) Load(src string) error {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return linkbot.Errorf(linkbot.EINVALID, "parsing HTML: %v", err)
	}
	d.mu.Lock()
	d.root = root
	d.scrollY = 0
	d.mu.Unlock()
	return nil
}

// Root returns the current document node.
func (d *Document) Root() *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root
}

// SetURL changes the reported URL without loading anything.
func (d *Document) SetURL(url string) {
	d.mu.Lock()
	d.url = url
	d.mu.Unlock()
}

// ScrollY returns the accumulated vertical scroll offset.
func (d *Document) ScrollY() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scrollY
}

func (d *Document) Query(ctx context.Context, s linkbot.Strategy) ([]linkbot.Element, error) {
	return query(ctx, d, d.Root(), s)
}

// Navigate loads url through the configured Loader.
func (d *Document) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.loader == nil {
		return linkbot.Errorf(linkbot.EINVALID, "static document cannot navigate to %s", url)
	}
	src, err := d.loader(ctx, url)
	if err != nil {
		return err
	}
	if err := d.Load(src); err != nil {
		return err
	}
	d.SetURL(url)
	return nil
}

// Reload loads the current URL again. Without a Loader the current tree is
// re-parsed from its own rendering, which still detaches old elements.
func (d *Document) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.loader != nil {
		url, _ := d.URL(ctx)
		return d.Navigate(ctx, url)
	}
	src, err := d.HTML(ctx)
	if err != nil {
		return err
	}
	return d.Load(src)
}

func (d *Document) URL(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *Document) HTML(_ context.Context) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, d.Root()); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (d *Document) ScrollBy(ctx context.Context, dy int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	d.scrollY = max(d.scrollY+dy, 0)
	d.mu.Unlock()
	return nil
}

func (d *Document) Close() error {
	return nil
}

// attached reports whether n is still part of the current tree.
func (d *Document) attached(n *html.Node) bool {
	root := d.Root()
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// Element is a node of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node returns the underlying HTML node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Remove detaches the element from the tree.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

func (e *Element) Query(ctx context.Context, s linkbot.Strategy) ([]linkbot.Element, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	return query(ctx, e.doc, e.node, s)
}

func (e *Element) Text(_ context.Context) (string, error) {
	if err := e.check(); err != nil {
		return "", err
	}
	return RenderText(e.node), nil
}

func (e *Element) Attribute(_ context.Context, name string) (string, bool, error) {
	if err := e.check(); err != nil {
		return "", false, err
	}
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true, nil
		}
	}
	return "", false, nil
}

func (e *Element) HTML(_ context.Context) (string, error) {
	if err := e.check(); err != nil {
		return "", err
	}
	return goquery.OuterHtml(goquery.NewDocumentFromNode(e.node).Selection)
}

// Click invokes the document's click handler.
func (e *Element) Click(ctx context.Context) error {
	if err := e.check(); err != nil {
		return err
	}
	if e.doc.onClick == nil {
		return linkbot.Errorf(linkbot.EINVALID, "static document does not handle clicks")
	}
	return e.doc.onClick(ctx, e.doc, e)
}

func (e *Element) ScrollIntoView(_ context.Context) error {
	return e.check()
}

// Clear empties the value attribute.
func (e *Element) Clear(_ context.Context) error {
	if err := e.check(); err != nil {
		return err
	}
	e.setAttr("value", "")
	return nil
}

// Input appends text to the value attribute.
func (e *Element) Input(ctx context.Context, text string) error {
	v, _, err := e.Attribute(ctx, "value")
	if err != nil {
		return err
	}
	e.setAttr("value", v+text)
	return nil
}

// PressEnter invokes the document's enter handler, if any.
func (e *Element) PressEnter(ctx context.Context) error {
	if err := e.check(); err != nil {
		return err
	}
	if e.doc.onEnter == nil {
		return nil
	}
	return e.doc.onEnter(ctx, e.doc, e)
}

func (e *Element) Connected(_ context.Context) (bool, error) {
	return e.doc.attached(e.node), nil
}

func (e *Element) check() error {
	if !e.doc.attached(e.node) {
		return linkbot.Errorf(linkbot.ESTALE, "element <%s> is detached", e.node.Data)
	}
	return nil
}

func (e *Element) setAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

func query(ctx context.Context, doc *Document, node *html.Node, s linkbot.Strategy) ([]linkbot.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var nodes []*html.Node
	switch s.Lang {
	case linkbot.CSS:
		m, err := cascadia.Compile(s.Selector)
		if err != nil {
			return nil, linkbot.Errorf(linkbot.EINVALID, "invalid CSS selector %q: %v", s.Selector, err)
		}
		nodes = goquery.NewDocumentFromNode(node).FindMatcher(m).Nodes
	case linkbot.XPath:
		found, err := htmlquery.QueryAll(node, s.Selector)
		if err != nil {
			return nil, linkbot.Errorf(linkbot.EINVALID, "invalid XPath %q: %v", s.Selector, err)
		}
		for _, n := range found {
			if n.Type == html.ElementNode {
				nodes = append(nodes, n)
			}
		}
	default:
		return nil, linkbot.Errorf(linkbot.EINVALID, "unknown query language %q", s.Lang)
	}

	out := make([]linkbot.Element, len(nodes))
	for i, n := range nodes {
		out[i] = &Element{doc: doc, node: n}
	}
	return out, nil
}
