package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/fs"
	"github.com/fwojciec/linkbot/goquery"
	"github.com/fwojciec/linkbot/search"
)

// ParseHTMLCmd is the "parse-html" subcommand.
type ParseHTMLCmd struct {
	File string `arg:"" type:"existingfile" help:"Saved search results page"`
	Out  string `type:"path" help:"Output JSON file (default: next to the page)"`
}

func (c *ParseHTMLCmd) out() string {
	if c.Out != "" {
		return c.Out
	}
	return strings.TrimSuffix(c.File, filepath.Ext(c.File)) + fs.FileSuffix
}

// Run executes the parse-html command.
func (c *ParseHTMLCmd) Run(deps *Dependencies) error {
	src, err := os.ReadFile(c.File)
	if err != nil {
		return deps.fail(err)
	}
	doc, err := goquery.NewDocument(string(src), goquery.WithURL(search.PeopleSearchURL))
	if err != nil {
		return deps.fail(linkbot.Errorf(linkbot.EINVALID, "parsing %s: %v", c.File, err))
	}

	store := fs.NewJSONStore(c.out())
	if err := store.Init(); err != nil {
		return deps.fail(err)
	}

	collector := search.NewCollector(doc, deps.resolver(), store, deps.Pacer, deps.Logger)
	// A saved page never changes, there is nothing to wait for.
	collector.WaitTimeout = time.Millisecond
	recs, err := collector.CollectCurrent(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Extracted %d profiles to %s\n", len(recs), store.Path())
	return nil
}
