package main

import (
	"encoding/json"
	"fmt"
	"time"
)

// Run executes the seed command.
func (c *SeedCmd) Run(deps *Dependencies) error {
	state, err := deps.Tracker.Seed(deps.Ctx, c.Value)
	if err != nil {
		return deps.fail("seed", err)
	}
	fmt.Fprintf(deps.Stdout, "Seeded value: %s\n", *state.LastValue)
	return nil
}

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if _, err := deps.Tracker.Reset(deps.Ctx); err != nil {
		return deps.fail("reset", err)
	}
	fmt.Fprintln(deps.Stdout, "State reset. The next check records a new baseline.")
	return nil
}

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	state, err := deps.Tracker.Status(deps.Ctx)
	if err != nil {
		return deps.fail("status", err)
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	value := "(none)"
	if state.LastValue != nil {
		value = *state.LastValue
	}
	changed := "(never)"
	if state.LastChangeAt != nil {
		changed = state.LastChangeAt.UTC().Format(time.RFC3339)
	}
	summary := state.LastSummaryDay
	if summary == "" {
		summary = "(never)"
	}

	fmt.Fprintf(deps.Stdout, "URL:           %s\n", deps.Tracker.Config.Target)
	fmt.Fprintf(deps.Stdout, "Value:         %s\n", value)
	fmt.Fprintf(deps.Stdout, "Last change:   %s\n", changed)
	fmt.Fprintf(deps.Stdout, "Changes today: %t\n", state.ChangesToday)
	fmt.Fprintf(deps.Stdout, "Last summary:  %s\n", summary)
	return nil
}
