package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/cabinet"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	rec, err := deps.Extractor.Extract(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	if c.Save {
		changed, err := deps.Records.SaveRecord(deps.Ctx, rec)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
			return err
		}
		if changed {
			fmt.Fprintf(deps.Stderr, "Saved %s\n", rec.SourceURL)
		} else {
			fmt.Fprintf(deps.Stderr, "Unchanged %s\n", rec.SourceURL)
		}
	}

	if c.Format == "markdown" {
		fmt.Fprint(deps.Stdout, cabinet.FormatRecord(rec, markdownBody(deps, rec)))
		return nil
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// markdownBody converts the record body to Markdown, falling back to the
// plain text when there is no markup or conversion fails.
func markdownBody(deps *Dependencies, rec *cabinet.Record) string {
	if rec.BodyHTML == "" {
		return rec.BodyText
	}
	md, err := deps.Converter.Convert(rec.BodyHTML)
	if err != nil {
		deps.Logger.Warn("markdown conversion failed", "url", rec.SourceURL, "err", err)
		return rec.BodyText
	}
	return md
}
