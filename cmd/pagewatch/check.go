package main

import (
	"fmt"

	"github.com/fwojciec/pagewatch"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	var (
		res *pagewatch.CheckResult
		err error
	)
	if c.Value != "" {
		res, err = deps.Tracker.CheckValue(deps.Ctx, c.Value)
	} else {
		res, err = deps.Tracker.Check(deps.Ctx)
	}
	if err != nil {
		return deps.fail("check", err)
	}

	switch res.Outcome {
	case pagewatch.NoChange:
		fmt.Fprintf(deps.Stdout, "No change. Value: %s\n", res.NewValue)
	case pagewatch.Changed:
		old := pagewatch.FirstRunLabel
		if res.OldValue != nil {
			old = *res.OldValue
		}
		fmt.Fprintf(deps.Stdout, "Change detected. Old: %s -> New: %s\n", old, res.NewValue)
	case pagewatch.ExtractionFailed:
		fmt.Fprintf(deps.Stdout, "Extraction failed: %s\n", pagewatch.ErrorMessage(res.Err))
	}
	return nil
}
