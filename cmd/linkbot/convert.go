package main

import (
	"fmt"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/etree"
	"github.com/fwojciec/linkbot/excelize"
	"github.com/fwojciec/linkbot/fs"
)

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	Format string `arg:"" enum:"csv,xlsx,xml" help:"Target format (csv, xlsx, xml)"`
	File   string `arg:"" help:"JSON results file"`
}

func tableWriter(format string) (linkbot.TableWriter, error) {
	switch format {
	case "csv":
		return fs.CSVWriter{}, nil
	case "xlsx":
		return excelize.NewWriter(), nil
	case "xml":
		return etree.NewWriter(), nil
	}
	return nil, linkbot.Errorf(linkbot.EINVALID, "unknown format %q", format)
}

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	tw, err := tableWriter(c.Format)
	if err != nil {
		return deps.fail(err)
	}

	dst, err := fs.ConvertFile(c.File, tw)
	if err != nil {
		fmt.Fprintf(deps.Stdout, "Conversion of %s to %s failed\n", c.File, c.Format)
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Converted %s to %s\n", c.File, dst)
	return nil
}
