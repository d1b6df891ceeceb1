package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/fs"
	"github.com/fwojciec/linkbot/search"
	lbslog "github.com/fwojciec/linkbot/slog"
)

// FindPeopleCmd is the "find-people" subcommand.
type FindPeopleCmd struct {
	Query  string `arg:"" help:"Search query"`
	Format string `default:"json" enum:"json,csv" help:"Output format (json, csv)"`
	Out    string `default:"." type:"path" help:"Output directory"`
}

// store creates an empty results file for query.
func (c *FindPeopleCmd) store() (linkbot.ProfileStore, error) {
	name := fs.FilenameForQuery(c.Query)
	if c.Format == "csv" {
		s := fs.NewCSVStore(filepath.Join(c.Out, strings.TrimSuffix(name, ".json")+".csv"))
		return s, s.Init()
	}
	s := fs.NewJSONStore(filepath.Join(c.Out, name))
	return s, s.Init()
}

// Run executes the find-people command.
func (c *FindPeopleCmd) Run(deps *Dependencies) error {
	if strings.TrimSpace(c.Query) == "" {
		return deps.fail(linkbot.Errorf(linkbot.EINVALID, "search query required"))
	}
	if err := deps.Config.ValidateLogin(); err != nil {
		return deps.fail(err)
	}

	store, err := c.store()
	if err != nil {
		return deps.fail(fmt.Errorf("creating results file: %w", err))
	}

	page, release, err := deps.session()
	if err != nil {
		return deps.fail(err)
	}
	defer release()

	collector := search.NewCollector(page, deps.resolver(), lbslog.NewLoggingProfileStore(store, deps.Logger), deps.Pacer, deps.Logger)
	recs, err := collector.Collect(deps.Ctx, c.Query)
	fmt.Fprintf(deps.Stdout, "Saved %d profiles to %s\n", len(recs), store.Path())
	if err != nil {
		return deps.fail(err)
	}
	return nil
}
