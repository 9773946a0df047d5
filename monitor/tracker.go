// Package monitor decides whether a watched value changed and what to tell
// people about it. It owns the read-modify-write cycle of the persisted
// MonitorState and fans notifications out to delivery channels.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/pagewatch"
)

// Tracker runs checks and daily summaries for one target.
//
// Each operation loads the state once, computes the next state in memory and
// saves it at most once, before any notification is attempted. Tracker is not
// safe for concurrent use against the same state store.
type Tracker struct {
	Config     pagewatch.MonitorConfig
	Fetcher    pagewatch.Fetcher
	Extractor  pagewatch.Extractor
	States     pagewatch.StateStore
	Dispatcher *Dispatcher
	Logger     *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Check fetches the target, extracts the watched value and records it.
//
// Fetch and extraction failures do not touch the persisted state; they yield
// an ExtractionFailed result and, if configured, an error notification.
// The returned error is reserved for configuration and state store failures.
func (t *Tracker) Check(ctx context.Context) (*pagewatch.CheckResult, error) {
	if err := t.Config.Validate(); err != nil {
		return nil, err
	}
	now := t.now()

	value, err := t.observe(ctx)
	if err != nil {
		if pagewatch.ErrorCode(err) == pagewatch.ECONFIG {
			return nil, err
		}
		return t.extractionFailed(ctx, err, now), nil
	}

	return t.record(ctx, value, now)
}

// CheckValue records value as if it had just been extracted from the target,
// skipping fetch and extraction.
func (t *Tracker) CheckValue(ctx context.Context, value string) (*pagewatch.CheckResult, error) {
	if err := t.validateTarget(); err != nil {
		return nil, err
	}
	return t.record(ctx, value, t.now())
}

// DailySummary sends the once-per-day "no changes" notification when no
// change was seen since the last summary. force resends on a day whose
// summary was already handled.
func (t *Tracker) DailySummary(ctx context.Context, force bool) (*pagewatch.SummaryResult, error) {
	if err := t.validateTarget(); err != nil {
		return nil, err
	}
	logger := t.logger()
	now := t.now()
	today := pagewatch.DayKey(now)

	state, err := t.States.LoadState(ctx, t.Config.Target)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	if state.LastSummaryDay == today && !force {
		logger.Info("daily summary already sent", "day", today)
		return &pagewatch.SummaryResult{Outcome: pagewatch.AlreadySent, Day: today}, nil
	}

	next := state.Clone()
	next.ChangesToday = false
	next.LastSummaryDay = today
	if err := t.States.SaveState(ctx, t.Config.Target, next); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	if state.ChangesToday {
		logger.Info("daily summary skipped", "day", today, "reason", "changes occurred")
		return &pagewatch.SummaryResult{Outcome: pagewatch.SkippedChangesOccurred, Day: today}, nil
	}

	logger.Info("daily summary sent", "day", today, "forced", force)
	t.Dispatcher.Dispatch(ctx, &pagewatch.Notification{
		Kind:   pagewatch.DailyAlert,
		Target: t.Config.Target,
		Time:   now,
		Day:    today,
	})
	return &pagewatch.SummaryResult{Outcome: pagewatch.Sent, Day: today}, nil
}

// Seed records value as the baseline without reporting a change.
func (t *Tracker) Seed(ctx context.Context, value string) (*pagewatch.MonitorState, error) {
	if err := t.validateTarget(); err != nil {
		return nil, err
	}

	state, err := t.States.LoadState(ctx, t.Config.Target)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	state.SetValue(value)
	if err := t.States.SaveState(ctx, t.Config.Target, state); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	t.logger().Info("state seeded", "value", value)
	return state, nil
}

// Reset forgets the last observed value so the next check establishes a new
// baseline. Daily summary bookkeeping is kept.
func (t *Tracker) Reset(ctx context.Context) (*pagewatch.MonitorState, error) {
	if err := t.validateTarget(); err != nil {
		return nil, err
	}

	state, err := t.States.LoadState(ctx, t.Config.Target)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	state.ClearValue()
	if err := t.States.SaveState(ctx, t.Config.Target, state); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	t.logger().Info("state reset")
	return state, nil
}

// Status returns the persisted state without modifying it.
func (t *Tracker) Status(ctx context.Context) (*pagewatch.MonitorState, error) {
	if err := t.validateTarget(); err != nil {
		return nil, err
	}
	return t.States.LoadState(ctx, t.Config.Target)
}

// SendTest delivers a test notification to every channel, or only to the
// named one when channel is non-empty.
func (t *Tracker) SendTest(ctx context.Context, channel string) (*DispatchReport, error) {
	d := t.Dispatcher
	if d == nil {
		d = &Dispatcher{}
	}
	if channel != "" {
		only, err := d.Only(channel)
		if err != nil {
			return nil, err
		}
		d = only
	}
	return d.Dispatch(ctx, &pagewatch.Notification{
		Kind:   pagewatch.TestAlert,
		Target: t.Config.Target,
		Time:   t.now(),
	}), nil
}

// observe fetches the target and extracts the watched value.
func (t *Tracker) observe(ctx context.Context) (string, error) {
	content, err := t.Fetcher.Fetch(ctx, t.Config.Target)
	if err != nil {
		if pagewatch.ErrorCode(err) == pagewatch.EINTERNAL {
			err = pagewatch.Errorf(pagewatch.EFETCH, "fetch %s: %v", t.Config.Target, err)
		}
		return "", err
	}
	return t.Extractor.Extract(content, t.Config.Rule)
}

// record compares value with the persisted state and saves a change.
func (t *Tracker) record(ctx context.Context, value string, now time.Time) (*pagewatch.CheckResult, error) {
	logger := t.logger()

	state, err := t.States.LoadState(ctx, t.Config.Target)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	if state.Matches(pagewatch.HashValue(value)) {
		logger.Info("no change", "value", value)
		return &pagewatch.CheckResult{
			Outcome:   pagewatch.NoChange,
			CheckedAt: now,
			OldValue:  state.LastValue,
			NewValue:  value,
		}, nil
	}

	old := state.LastValue
	next := state.Clone()
	next.SetValue(value)
	next.LastChangeAt = &now
	next.ChangesToday = true
	if err := t.States.SaveState(ctx, t.Config.Target, next); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	oldText := pagewatch.FirstRunLabel
	if old != nil {
		oldText = *old
	}
	logger.Info("change detected", "old", oldText, "new", value, "first_run", old == nil)

	t.Dispatcher.Dispatch(ctx, &pagewatch.Notification{
		Kind:     pagewatch.ChangeAlert,
		Target:   t.Config.Target,
		Time:     now,
		OldValue: old,
		NewValue: value,
	})

	return &pagewatch.CheckResult{
		Outcome:   pagewatch.Changed,
		CheckedAt: now,
		OldValue:  old,
		NewValue:  value,
	}, nil
}

func (t *Tracker) extractionFailed(ctx context.Context, err error, now time.Time) *pagewatch.CheckResult {
	t.logger().Error("extraction failed",
		"code", pagewatch.ErrorCode(err),
		"err", err,
	)

	if t.Config.NotifyOnError {
		t.Dispatcher.Dispatch(ctx, &pagewatch.Notification{
			Kind:   pagewatch.ExtractionErrorAlert,
			Target: t.Config.Target,
			Time:   now,
			Error:  errorText(err),
		})
	}

	return &pagewatch.CheckResult{
		Outcome:   pagewatch.ExtractionFailed,
		CheckedAt: now,
		Err:       err,
	}
}

func (t *Tracker) validateTarget() error {
	if t.Config.Target == "" {
		return pagewatch.Errorf(pagewatch.ECONFIG, "target URL required")
	}
	return nil
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now().UTC()
	}
	return time.Now().UTC()
}

func (t *Tracker) logger() *slog.Logger {
	return loggerOrDiscard(t.Logger).With("target", t.Config.Target)
}

// errorText prefers the application message over the wrapped error text.
func errorText(err error) string {
	if pagewatch.ErrorCode(err) != pagewatch.EINTERNAL {
		return pagewatch.ErrorMessage(err)
	}
	return err.Error()
}
