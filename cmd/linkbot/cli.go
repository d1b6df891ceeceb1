package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/auth"
	"github.com/fwojciec/linkbot/resolve"
	lbslog "github.com/fwojciec/linkbot/slog"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  *bufio.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config linkbot.Config
	Pacer  linkbot.Pacer
	Launch func(ctx context.Context) (linkbot.Browser, error)

	// Hold keeps the browser open until Enter is pressed.
	Hold bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Email      string  `env:"LINKBOT_EMAIL" help:"Login email"`
	Password   string  `env:"LINKBOT_PASSWORD" help:"Login password"`
	Author     string  `env:"LINKBOT_AUTHOR" help:"Author name whose comments are deleted"`
	ProfileURL string  `name:"profile-url" env:"LINKBOT_PROFILE_URL" help:"Your profile URL"`
	Headless   bool    `help:"Run the browser without a window"`
	Speed      float64 `default:"1" help:"Scale of the pauses between actions"`
	LogLevel   string  `default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`

	Menu           MenuCmd           `cmd:"" default:"1" help:"Choose an operation from a menu"`
	DeleteComments DeleteCommentsCmd `cmd:"" name:"delete-comments" help:"Delete comments made by an author"`
	FindPeople     FindPeopleCmd     `cmd:"" name:"find-people" help:"Save people search results"`
	ParseProfiles  ParseProfilesCmd  `cmd:"" name:"parse-profiles" help:"Parse full profile pages"`
	Convert        ConvertCmd        `cmd:"" help:"Convert a JSON results file to CSV, XLSX or XML"`
	ParseHTML      ParseHTMLCmd      `cmd:"" name:"parse-html" help:"Extract profiles from a saved results page"`
}

func (d *Dependencies) resolver() *resolve.Resolver {
	return resolve.New(d.Logger)
}

// login signs page in with the configured credentials.
func (d *Dependencies) login(ctx context.Context, page linkbot.Page) error {
	return auth.NewAuthenticator(page, d.resolver(), d.Pacer, d.Logger).Login(ctx, d.Config.Credentials)
}

// session launches a browser, opens a page and signs in. The returned func
// releases the browser.
func (d *Dependencies) session() (linkbot.Page, func(), error) {
	if err := d.Config.ValidateLogin(); err != nil {
		return nil, nil, err
	}

	b, err := d.Launch(d.Ctx)
	if err != nil {
		fmt.Fprintln(d.Stderr, "Hint: Chrome or Chromium must be installed")
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}
	p, err := b.NewPage(d.Ctx)
	if err != nil {
		_ = b.Close()
		return nil, nil, fmt.Errorf("failed to open page: %w", err)
	}
	page := lbslog.NewLoggingPage(p, d.Logger)

	release := func() {
		if d.Hold {
			fmt.Fprint(d.Stdout, "Press Enter to close the browser...")
			_, _ = d.Stdin.ReadString('\n')
		}
		_ = page.Close()
		_ = b.Close()
	}

	if err := d.login(d.Ctx, page); err != nil {
		release()
		return nil, nil, err
	}
	return page, release, nil
}

// prompt prints label and returns the next input line without surrounding
// whitespace.
func (d *Dependencies) prompt(label string) (string, error) {
	fmt.Fprint(d.Stdout, label)
	line, err := d.Stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// fail reports err on stderr and returns it.
func (d *Dependencies) fail(err error) error {
	msg := linkbot.ErrorMessage(err)
	if linkbot.ErrorCode(err) == linkbot.EINTERNAL {
		msg = err.Error()
	}
	fmt.Fprintf(d.Stderr, "error: %s\n", msg)
	return err
}
