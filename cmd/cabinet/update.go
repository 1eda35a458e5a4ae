package main

import (
	"fmt"

	"github.com/fwojciec/cabinet/batch"
	"github.com/schollz/progressbar/v3"
)

// Run executes the update command.
func (c *UpdateCmd) Run(deps *Dependencies) error {
	u := deps.Updater
	u.DryRun = c.DryRun
	if c.RPS > 0 {
		u.RateLimiter = batch.NewDomainLimiter(c.RPS)
	}

	var bar *progressbar.ProgressBar
	progress := func(event batch.ProgressEvent) {
		switch event.Type {
		case batch.ProgressStarted:
			if c.Progress && event.Total > 0 {
				bar = progressbar.NewOptions(event.Total,
					progressbar.OptionSetWriter(deps.Stderr),
					progressbar.OptionSetDescription("updating"),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			return
		case batch.ProgressFinished:
			if bar != nil {
				_ = bar.Finish()
			}
			return
		case batch.ProgressFailed:
			if bar != nil {
				_ = bar.Clear()
			}
			fmt.Fprintf(deps.Stderr, "[WARN] %s: %s\n", event.Path, describe(event.Error))
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	result, err := u.Run(deps.Ctx, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	if c.DryRun {
		fmt.Fprintf(deps.Stdout, "Would update %d files\n", result.Updated-result.Unchanged)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Updated %d files\n", result.Updated)
	return nil
}
