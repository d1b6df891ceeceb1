package auth_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/auth"
	"github.com/fwojciec/linkbot/goquery"
	"github.com/fwojciec/linkbot/mock"
	"github.com/fwojciec/linkbot/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	feedURL      = "https://www.linkedin.com/feed/"
	challengeURL = "https://www.linkedin.com/checkpoint/challenge/abc"
)

var creds = linkbot.Credentials{Email: "jan@example.com", Password: "s3cret-pass"}

const loginForm = `<html><body><form class="login__form">
	<input id="username" name="session_key" type="text" value="prefilled@example.com">
	<input id="password" name="session_password" type="password" value="">
	<button type="submit" data-id="sign-in-form__submit-btn">Zaloguj się</button>
</form></body></html>`

const authWall = `<html><body><section class="authwall-join-form">
	<h1>Dołącz do sieci</h1>
	<button class="authwall-join-form__form-toggle--bottom">Zaloguj się</button>
</section></body></html>`

// site simulates the login page.
type site struct {
	authWall  bool
	challenge time.Duration // -1 never resolves
	wallClick int
}

func (s *site) load(_ context.Context, _ string) (string, error) {
	if s.authWall {
		return authWall, nil
	}
	return loginForm, nil
}

func (s *site) click(ctx context.Context, doc *goquery.Document, el *goquery.Element) error {
	class, _, _ := el.Attribute(ctx, "class")
	if strings.Contains(class, "form-toggle") {
		s.wallClick++
		return doc.Load(loginForm)
	}
	if typ, _, _ := el.Attribute(ctx, "type"); typ != "submit" {
		return nil
	}

	email := value(ctx, doc, "#username")
	password := value(ctx, doc, "#password")
	if email != creds.Email || password != creds.Password {
		doc.SetURL(linkbot.LoginURL + "?error=1")
		return nil
	}
	switch {
	case s.challenge == 0:
		doc.SetURL(feedURL)
	case s.challenge > 0:
		doc.SetURL(challengeURL)
		time.AfterFunc(s.challenge, func() { doc.SetURL(feedURL) })
	default:
		doc.SetURL(challengeURL)
	}
	return nil
}

func value(ctx context.Context, doc *goquery.Document, sel string) string {
	els, err := doc.Query(ctx, linkbot.ByCSS(sel))
	if err != nil || len(els) == 0 {
		return ""
	}
	v, _, _ := els[0].Attribute(ctx, "value")
	return v
}

func newAuthenticator(t *testing.T, s *site, logger *slog.Logger) *auth.Authenticator {
	t.Helper()
	doc, err := goquery.NewDocument("<html></html>",
		goquery.WithLoader(s.load),
		goquery.WithClickHandler(s.click),
	)
	require.NoError(t, err)
	r := resolve.New(nil)
	r.PollInterval = time.Millisecond
	a := auth.NewAuthenticator(doc, r, mock.NoPause(), logger)
	a.WaitTimeout = 5 * time.Millisecond
	a.ChallengeInterval = 2 * time.Millisecond
	a.ChallengeTimeout = time.Second
	return a
}

func TestAuthenticator_Login(t *testing.T) {
	t.Parallel()

	t.Run("signs in with valid credentials", func(t *testing.T) {
		t.Parallel()

		// Given a login form with a prefilled email
		s := &site{}
		a := newAuthenticator(t, s, nil)

		// When logging in
		err := a.Login(context.Background(), creds)

		// Then the prefilled value is replaced and the feed is reached
		require.NoError(t, err)
		u, _ := a.Page.URL(context.Background())
		assert.Equal(t, feedURL, u)
	})

	t.Run("passes the auth wall", func(t *testing.T) {
		t.Parallel()

		s := &site{authWall: true}
		a := newAuthenticator(t, s, nil)

		err := a.Login(context.Background(), creds)

		require.NoError(t, err)
		assert.Equal(t, 1, s.wallClick)
	})

	t.Run("rejected credentials are unauthorized", func(t *testing.T) {
		t.Parallel()

		s := &site{}
		a := newAuthenticator(t, s, nil)

		err := a.Login(context.Background(), linkbot.Credentials{Email: creds.Email, Password: "wrong"})

		assert.Equal(t, linkbot.EUNAUTHORIZED, linkbot.ErrorCode(err))
	})

	t.Run("waits for a challenge to be solved", func(t *testing.T) {
		t.Parallel()

		s := &site{challenge: 20 * time.Millisecond}
		var buf bytes.Buffer
		a := newAuthenticator(t, s, slog.New(slog.NewTextHandler(&buf, nil)))

		err := a.Login(context.Background(), creds)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "security challenge detected")
		assert.Contains(t, buf.String(), "security challenge solved")
	})

	t.Run("gives up on an unsolved challenge", func(t *testing.T) {
		t.Parallel()

		s := &site{challenge: -1}
		a := newAuthenticator(t, s, nil)
		a.ChallengeTimeout = 20 * time.Millisecond

		err := a.Login(context.Background(), creds)

		assert.Equal(t, linkbot.ETIMEOUT, linkbot.ErrorCode(err))
	})

	t.Run("challenge wait honours cancellation", func(t *testing.T) {
		t.Parallel()

		s := &site{challenge: -1}
		a := newAuthenticator(t, s, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := a.Login(ctx, creds)

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("requires credentials", func(t *testing.T) {
		t.Parallel()

		a := newAuthenticator(t, &site{}, nil)

		err := a.Login(context.Background(), linkbot.Credentials{Email: "jan@example.com"})

		assert.Equal(t, linkbot.EINVALID, linkbot.ErrorCode(err))
	})

	t.Run("missing form fails", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewDocument("<html></html>", goquery.WithLoader(func(context.Context, string) (string, error) {
			return `<html><body><p>maintenance</p></body></html>`, nil
		}))
		require.NoError(t, err)
		a := auth.NewAuthenticator(doc, resolve.New(nil), mock.NoPause(), nil)
		a.WaitTimeout = time.Millisecond

		err = a.Login(context.Background(), creds)

		assert.Equal(t, linkbot.ENOTFOUND, linkbot.ErrorCode(err))
		assert.Contains(t, err.Error(), "email field")
	})

	t.Run("never logs the password", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		a := newAuthenticator(t, &site{}, logger)

		require.NoError(t, a.Login(context.Background(), creds))

		assert.NotContains(t, buf.String(), creds.Password)
		assert.Contains(t, buf.String(), "logged in")
	})
}
