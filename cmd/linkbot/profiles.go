package main

import (
	"fmt"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/extract"
	"github.com/fwojciec/linkbot/fs"
	"github.com/fwojciec/linkbot/htmltomarkdown"
	"github.com/fwojciec/linkbot/pace"
	"github.com/fwojciec/linkbot/profile"
	lbslog "github.com/fwojciec/linkbot/slog"
)

// ParseProfilesCmd is the "parse-profiles" subcommand.
type ParseProfilesCmd struct {
	File    string   `arg:"" optional:"" type:"existingfile" help:"JSON results file with profile_url fields"`
	URL     []string `name:"url" help:"Profile URL to parse (repeatable)"`
	Workers int      `short:"w" default:"3" help:"Number of browsers working in parallel"`
	Out     string   `default:"profiles" type:"path" help:"Output directory, one JSON file per profile"`
}

// urls returns the profile URLs from File and --url, without duplicates.
func (c *ParseProfilesCmd) urls() ([]string, error) {
	var urls []string
	if c.File != "" {
		fromFile, err := fs.ReadProfileURLs(c.File)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		seen[u] = true
	}
	for _, u := range c.URL {
		u = linkbot.CanonicalProfileURL(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	if len(urls) == 0 {
		return nil, linkbot.Errorf(linkbot.EINVALID, "no profile URLs given")
	}
	return urls, nil
}

// Run executes the parse-profiles command.
func (c *ParseProfilesCmd) Run(deps *Dependencies) error {
	urls, err := c.urls()
	if err != nil {
		return deps.fail(err)
	}
	if err := deps.Config.ValidateLogin(); err != nil {
		return deps.fail(err)
	}

	writer := fs.NewProfileWriter(c.Out)
	parser := &profile.Parser{
		Launch:      deps.Launch,
		Login:       deps.login,
		Extractor:   extract.NewExtractor(deps.resolver(), deps.Logger),
		Converter:   htmltomarkdown.NewConverter(),
		Writer:      lbslog.NewLoggingProfileWriter(writer, deps.Logger),
		Pacer:       deps.Pacer,
		Logger:      deps.Logger,
		Workers:     c.Workers,
		RetryDelays: pace.DefaultRetryDelays(),
	}

	res, err := parser.Parse(deps.Ctx, urls, func(p linkbot.ParseProgress) {
		status := "ok"
		if p.Error != nil {
			status = "failed: " + p.Error.Error()
		}
		fmt.Fprintf(deps.Stdout, "[%d/%d] worker %d %s %s\n", p.Completed, p.Total, p.Worker, p.URL, status)
	})
	if res != nil {
		fmt.Fprintf(deps.Stdout, "Parsed %d of %d profiles into %s (%d failed)\n", res.Parsed, res.Total, c.Out, res.Failed)
	}
	if err != nil {
		return deps.fail(err)
	}
	return nil
}
