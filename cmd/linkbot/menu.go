package main

import (
	"fmt"
	"io"
)

// MenuCmd is the "menu" subcommand, run when no command is given.
type MenuCmd struct{}

const menuText = `LinkedIn automation
  1. Delete comments
  2. Find people
  3. Parse profiles
  0. Exit
`

// Run executes the menu command. It runs one operation and returns.
func (c *MenuCmd) Run(deps *Dependencies) error {
	deps.Hold = true
	fmt.Fprint(deps.Stdout, menuText)

	for {
		choice, err := deps.prompt("Choose an option: ")
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		switch choice {
		case "0":
			return nil
		case "1":
			return (&DeleteCommentsCmd{}).Run(deps)
		case "2":
			query, err := deps.prompt("Search query: ")
			if err != nil {
				return err
			}
			return (&FindPeopleCmd{Query: query, Format: "json", Out: "."}).Run(deps)
		case "3":
			file, err := deps.prompt("Results file: ")
			if err != nil {
				return err
			}
			return (&ParseProfilesCmd{File: file, Workers: 3, Out: "profiles"}).Run(deps)
		default:
			fmt.Fprintf(deps.Stdout, "Invalid choice %q\n", choice)
		}
	}
}
