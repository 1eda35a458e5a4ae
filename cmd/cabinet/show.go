package main

import (
	"fmt"

	"github.com/fwojciec/cabinet"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rec, err := deps.Records.FindRecordByURL(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	fmt.Fprint(deps.Stdout, cabinet.FormatRecord(rec, markdownBody(deps, rec)))
	return nil
}
