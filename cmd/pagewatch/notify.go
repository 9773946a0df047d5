package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/fwojciec/pagewatch"
	"github.com/go-playground/validator/v10"
)

// Run executes the test-notify command.
func (c *TestNotifyCmd) Run(deps *Dependencies) error {
	if err := validator.New().Struct(c); err != nil {
		return deps.fail("test notify", pagewatch.Errorf(pagewatch.ECONFIG, "invalid channel %q: want email, call or sms", c.Channel))
	}

	report, err := deps.Tracker.SendTest(deps.Ctx, c.Channel)
	if pagewatch.ErrorCode(err) == pagewatch.ENOTFOUND {
		err = pagewatch.Errorf(pagewatch.ECONFIG, "%s; check its settings", pagewatch.ErrorMessage(err))
	}
	if err != nil {
		return deps.fail("test notify", err)
	}

	if report.Attempted() == 0 {
		fmt.Fprintln(deps.Stdout, "No notification channels configured.")
		return nil
	}

	for _, name := range report.Delivered {
		fmt.Fprintf(deps.Stdout, "%s: sent\n", name)
	}
	for _, name := range slices.Sorted(maps.Keys(report.Failed)) {
		fmt.Fprintf(deps.Stdout, "%s: failed: %s\n", name, pagewatch.ErrorMessage(report.Failed[name]))
	}
	return nil
}
