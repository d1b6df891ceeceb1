// Package auth signs in to the site with an email and password.
//
// No session state is kept between runs: every run starts from the login
// form. A security challenge is left to the person at the keyboard while
// Login waits for it to clear.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/resolve"
)

// Defaults for Authenticator settings left zero.
const (
	DefaultWaitTimeout       = 10 * time.Second
	DefaultChallengeInterval = 5 * time.Second
	DefaultChallengeTimeout  = 5 * time.Minute
)

// SuccessMarkers are URL fragments of pages only reachable when signed in.
var SuccessMarkers = []string{"/feed", "/in/", "mynetwork"}

// Selectors holds the strategies for the login flow.
type Selectors struct {
	AuthWall linkbot.StrategyList
	Email    linkbot.StrategyList
	Password linkbot.StrategyList
	Submit   linkbot.StrategyList
}

// DefaultSelectors returns the login form strategies.
func DefaultSelectors() Selectors {
	return Selectors{
		AuthWall: linkbot.Strategies(
			linkbot.ByCSS("button.authwall-join-form__form-toggle--bottom").Named("join form toggle"),
			linkbot.ByCSS("button.sign-in-form__submit-btn"),
			linkbot.ByCSS("button[data-id='sign-in-form__submit-btn']"),
			linkbot.ByXPath("//button[contains(text(),'Zaloguj się')]"),
			linkbot.ByXPath("//button[contains(text(),'Sign in')]"),
		),
		Email: linkbot.Strategies(
			linkbot.ByCSS(`input[name="session_key"]`).Named("session key"),
			linkbot.ByCSS(`input[id="username"]`),
			linkbot.ByCSS(`input[autocomplete="username"]`),
			linkbot.ByXPath(`//input[@type="text"][@id="username"]`),
			linkbot.ByXPath(`//input[contains(@class,"login-email")]`),
			linkbot.ByXPath(`//input[@type='text' or @type='email']`).Named("any text input"),
		),
		Password: linkbot.Strategies(
			linkbot.ByCSS(`input[name="session_password"]`).Named("session password"),
			linkbot.ByCSS(`input[id="password"]`),
			linkbot.ByCSS(`input[autocomplete="current-password"]`),
			linkbot.ByXPath(`//input[@type="password"]`),
			linkbot.ByXPath(`//input[contains(@class,"login-password")]`),
		),
		Submit: linkbot.Strategies(
			linkbot.ByCSS(`button[data-id="sign-in-form__submit-btn"]`).Named("submit"),
			linkbot.ByCSS("button.sign-in-form__submit-button"),
			linkbot.ByCSS(`button[type="submit"]`),
			linkbot.ByXPath(`//button[contains(text(),"Zaloguj")]`),
			linkbot.ByXPath(`//button[contains(text(),"Sign in")]`),
		),
	}
}

// Authenticator fills in and submits the login form.
type Authenticator struct {
	Page      linkbot.Page
	Resolver  *resolve.Resolver
	Pacer     linkbot.Pacer
	Selectors Selectors
	Logger    *slog.Logger

	LoginURL string

	// WaitTimeout bounds the wait for each form control.
	WaitTimeout time.Duration

	ChallengeInterval time.Duration
	ChallengeTimeout  time.Duration
}

// NewAuthenticator returns an Authenticator with default selectors.
func NewAuthenticator(page linkbot.Page, r *resolve.Resolver, pacer linkbot.Pacer, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Authenticator{
		Page:              page,
		Resolver:          r,
		Pacer:             pacer,
		Selectors:         DefaultSelectors(),
		Logger:            logger,
		LoginURL:          linkbot.LoginURL,
		WaitTimeout:       DefaultWaitTimeout,
		ChallengeInterval: DefaultChallengeInterval,
		ChallengeTimeout:  DefaultChallengeTimeout,
	}
}

// Login signs in with creds. It returns EUNAUTHORIZED when the site does
// not land on a signed-in page after the form is submitted.
func (a *Authenticator) Login(ctx context.Context, creds linkbot.Credentials) error {
	if creds.Email == "" || creds.Password == "" {
		return linkbot.Errorf(linkbot.EINVALID, "login email and password required")
	}

	a.Logger.Info("starting login", "email", creds.Email)
	if err := a.Page.Navigate(ctx, a.LoginURL); err != nil {
		return fmt.Errorf("opening login page: %w", err)
	}
	if err := a.Pacer.Pause(ctx, linkbot.DelayPageLoad); err != nil {
		return err
	}

	if a.onAuthWall(ctx) {
		if err := a.passAuthWall(ctx); err != nil {
			return err
		}
	}

	if err := a.fill(ctx, "email", a.Selectors.Email, creds.Email); err != nil {
		return err
	}
	if err := a.fill(ctx, "password", a.Selectors.Password, creds.Password); err != nil {
		return err
	}

	submit, err := a.Resolver.First(ctx, a.Page, a.Selectors.Submit, resolve.WithTimeout(a.waitTimeout()))
	if err != nil {
		return fmt.Errorf("login button: %w", err)
	}
	if err := a.Pacer.Pause(ctx, linkbot.DelayClick); err != nil {
		return err
	}
	if err := submit.Click(ctx); err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}
	a.Logger.Info("login form submitted")
	if err := a.Pacer.Pause(ctx, linkbot.DelayLogin); err != nil {
		return err
	}

	if err := a.waitChallenge(ctx); err != nil {
		return err
	}

	u, err := a.Page.URL(ctx)
	if err != nil {
		return err
	}
	if !signedIn(u) {
		a.Logger.Error("login failed", "url", u)
		return linkbot.Errorf(linkbot.EUNAUTHORIZED, "login failed: check credentials or solve the captcha")
	}
	a.Logger.Info("logged in", "url", u)

	if err := a.Page.ScrollBy(ctx, 200+rand.IntN(300)); err != nil {
		a.Logger.Debug("scroll failed", "err", err)
	}
	return a.Pacer.Pause(ctx, linkbot.DelayClick)
}

func signedIn(u string) bool {
	for _, m := range SuccessMarkers {
		if strings.Contains(u, m) {
			return true
		}
	}
	return false
}

func (a *Authenticator) onAuthWall(ctx context.Context) bool {
	if u, err := a.Page.URL(ctx); err == nil && strings.Contains(u, "join") {
		return true
	}
	src, err := a.Page.HTML(ctx)
	return err == nil && strings.Contains(src, "authwall")
}

// passAuthWall clicks through to the sign-in form. A missing control is
// logged and the form is searched for anyway.
func (a *Authenticator) passAuthWall(ctx context.Context) error {
	a.Logger.Info("auth wall detected")
	btn, err := a.Resolver.First(ctx, a.Page, a.Selectors.AuthWall, resolve.WithTimeout(a.waitTimeout()))
	if err := ctxErr(ctx, err); err != nil {
		return err
	}
	if err != nil {
		a.Logger.Warn("sign-in control not found on auth wall")
		return nil
	}
	if err := btn.Click(ctx); err != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.Logger.Warn("sign-in control click failed", "err", err)
		return nil
	}
	return a.Pacer.Pause(ctx, linkbot.DelayPageLoad)
}

// fill replaces the value of the first field matched by list.
func (a *Authenticator) fill(ctx context.Context, name string, list linkbot.StrategyList, value string) error {
	m, err := a.Resolver.Resolve(ctx, a.Page, list, resolve.WithTimeout(a.waitTimeout()), resolve.WithLimit(1))
	if err != nil {
		return fmt.Errorf("%s field: %w", name, err)
	}
	a.Logger.Debug("found field", "field", name, "strategy", m.Strategy.String())

	field := m.First()
	if err := field.Clear(ctx); err != nil {
		return fmt.Errorf("clearing %s field: %w", name, err)
	}
	if err := field.Click(ctx); err != nil {
		a.Logger.Debug("field click failed", "field", name, "err", err)
	}
	if err := a.Pacer.Pause(ctx, linkbot.DelayClick); err != nil {
		return err
	}
	if err := field.Input(ctx, value); err != nil {
		return fmt.Errorf("typing %s: %w", name, err)
	}
	return a.Pacer.Pause(ctx, linkbot.DelayClick)
}

// waitChallenge polls while the URL points at a security challenge.
func (a *Authenticator) waitChallenge(ctx context.Context) error {
	onChallenge := func() bool {
		u, err := a.Page.URL(ctx)
		return err == nil && strings.Contains(u, "challenge")
	}
	if !onChallenge() {
		return nil
	}

	a.Logger.Warn("security challenge detected, waiting for it to be solved")
	deadline := time.Now().Add(a.challengeTimeout())
	ticker := time.NewTicker(a.challengeInterval())
	defer ticker.Stop()
	for onChallenge() {
		if !time.Now().Before(deadline) {
			return linkbot.Errorf(linkbot.ETIMEOUT, "security challenge not solved within %s", a.challengeTimeout())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	a.Logger.Info("security challenge solved")
	return nil
}

func (a *Authenticator) waitTimeout() time.Duration {
	if a.WaitTimeout <= 0 {
		return DefaultWaitTimeout
	}
	return a.WaitTimeout
}

func (a *Authenticator) challengeInterval() time.Duration {
	if a.ChallengeInterval <= 0 {
		return DefaultChallengeInterval
	}
	return a.ChallengeInterval
}

func (a *Authenticator) challengeTimeout() time.Duration {
	if a.ChallengeTimeout <= 0 {
		return DefaultChallengeTimeout
	}
	return a.ChallengeTimeout
}

// ctxErr returns err only when it is the context's error.
func ctxErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
