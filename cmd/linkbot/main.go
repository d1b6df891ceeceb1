package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/pace"
	"github.com/fwojciec/linkbot/rod"
	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// DefaultConfigPath is the optional JSON file flag defaults are read from.
const DefaultConfigPath = "~/.linkbot.json"

// Main represents the program.
type Main struct {
	// ConfigPaths are JSON files providing flag defaults. Missing files are
	// ignored.
	ConfigPaths []string

	// Launch starts a browser. Nil launches Chrome through rod.
	Launch func(ctx context.Context) (linkbot.Browser, error)

	// Pacer paces browser interactions. Nil uses human-like pauses scaled
	// by --speed.
	Pacer linkbot.Pacer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{DefaultConfigPath},
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  bufio.NewReader(stdin),
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("linkbot"),
		kong.Description("Automate LinkedIn: delete comments, collect people search results and parse profiles"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(kong.JSON, m.ConfigPaths...),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 {
		switch args[0] {
		case "help", "--help", "-h":
			_, _ = parser.Parse([]string{"--help"})
			return nil
		}
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		return linkbot.Errorf(linkbot.EINVALID, "invalid log level %q", cli.LogLevel)
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run", uuid.NewString())

	deps.Config = linkbot.Config{
		Credentials: linkbot.Credentials{
			Email:    cli.Email,
			Password: cli.Password,
		},
		TargetAuthor: cli.Author,
		ProfileURL:   cli.ProfileURL,
	}

	deps.Pacer = m.Pacer
	if deps.Pacer == nil {
		deps.Pacer = pace.NewHuman(cli.Speed, pace.DefaultMinGap)
	}
	deps.Launch = m.Launch
	if deps.Launch == nil {
		deps.Launch = rod.Launch(rod.WithHeadless(cli.Headless))
	}

	return kongCtx.Run(deps)
}
