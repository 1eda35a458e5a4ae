package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/cabinet"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := cabinet.RecordFilter{Limit: c.Limit}
	if c.Tag != "" {
		filter.Tag = &c.Tag
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'cabinet extract --save' or 'cabinet update --db' to add some.")
		return nil
	}

	for _, rec := range records {
		title := rec.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  [%s]\n", rec.SourceURL, title, strings.Join(rec.Tags, ", "))
	}

	return nil
}
