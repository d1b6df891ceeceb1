package main

import (
	"fmt"

	"github.com/fwojciec/linkbot/comments"
)

// DeleteCommentsCmd is the "delete-comments" subcommand.
type DeleteCommentsCmd struct{}

// Run executes the delete-comments command.
func (c *DeleteCommentsCmd) Run(deps *Dependencies) error {
	if err := deps.Config.ValidateDeletion(); err != nil {
		return deps.fail(err)
	}

	page, release, err := deps.session()
	if err != nil {
		return deps.fail(err)
	}
	defer release()

	engine := comments.NewEngine(page, deps.resolver(), deps.Pacer, deps.Config, deps.Logger)
	report, err := engine.Run(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d of %d comments by %q in %d passes\n",
		len(report.Deleted), report.Discovered, deps.Config.TargetAuthor, report.Passes)
	if len(report.Failed) > 0 {
		fmt.Fprintf(deps.Stdout, "Could not delete %d comments\n", len(report.Failed))
	}
	return nil
}
