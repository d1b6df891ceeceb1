// Package rod implements linkbot.Browser, linkbot.Page and linkbot.Element
// on top of a Chrome instance driven through go-rod.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/linkbot"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Ensure Browser implements linkbot.Browser at compile time.
var _ linkbot.Browser = (*Browser)(nil)

// Browser owns one Chrome process. Pages opened by the same Browser share
// cookies, so one login serves every page.
//
// Browser is safe for concurrent use.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	headless bool
	bin      string
	mu       sync.Mutex
	closed   atomic.Bool
}

// Option configures a Browser.
type Option func(*Browser)

// WithHeadless runs Chrome without a window. Browsers are headful by
// default so a person can solve security challenges.
func WithHeadless(enable bool) Option {
	return func(b *Browser) {
		b.headless = enable
	}
}

// WithBin uses the Chrome binary at path instead of looking one up.
func WithBin(path string) Option {
	return func(b *Browser) {
		b.bin = path
	}
}

// NewBrowser launches Chrome and connects to it. Close must be called when
// the Browser is no longer needed.
func NewBrowser(opts ...Option) (*Browser, error) {
	b := &Browser{}
	for _, opt := range opts {
		opt(b)
	}

	lnchr := launcher.New().
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("start-maximized").
		Leakless(true).
		Headless(b.headless)
	if b.bin != "" {
		lnchr = lnchr.Bin(b.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	b.browser = browser
	b.launcher = lnchr
	return b, nil
}

// Launch starts a Browser. It matches the launch func the profile parser
// expects for its workers.
func Launch(opts ...Option) func(context.Context) (linkbot.Browser, error) {
	return func(ctx context.Context) (linkbot.Browser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewBrowser(opts...)
	}
}

// NewPage opens a tab with the automation fingerprint hidden.
func (b *Browser) NewPage(ctx context.Context) (linkbot.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.closed.Load() {
		return nil, linkbot.Errorf(linkbot.EINVALID, "browser closed")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p, err := stealth.Page(b.browser)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	return &Page{page: p, NavTimeout: DefaultNavTimeout}, nil
}

// Close shuts Chrome down. Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (b *Browser) LauncherPID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}
