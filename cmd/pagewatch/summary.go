package main

import (
	"fmt"

	"github.com/fwojciec/pagewatch"
)

// Run executes the daily-summary command.
func (c *DailySummaryCmd) Run(deps *Dependencies) error {
	res, err := deps.Tracker.DailySummary(deps.Ctx, c.Force)
	if err != nil {
		return deps.fail("daily summary", err)
	}

	switch res.Outcome {
	case pagewatch.AlreadySent:
		fmt.Fprintf(deps.Stdout, "Daily summary already sent for %s; skipping.\n", res.Day)
	case pagewatch.SkippedChangesOccurred:
		fmt.Fprintf(deps.Stdout, "Changes occurred on %s; no summary needed.\n", res.Day)
	case pagewatch.Sent:
		fmt.Fprintf(deps.Stdout, "Daily summary sent for %s.\n", res.Day)
	}
	return nil
}
