package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagewatch"
)

// Ensure LoggingStateStore implements pagewatch.StateStore.
var _ pagewatch.StateStore = (*LoggingStateStore)(nil)

// LoggingStateStore wraps a StateStore with debug logging.
type LoggingStateStore struct {
	next   pagewatch.StateStore
	logger *slog.Logger
}

// NewLoggingStateStore creates a new LoggingStateStore.
func NewLoggingStateStore(next pagewatch.StateStore, logger *slog.Logger) *LoggingStateStore {
	return &LoggingStateStore{next: next, logger: logger}
}

// LoadState delegates to the wrapped store and logs the read.
func (s *LoggingStateStore) LoadState(ctx context.Context, target string) (state *pagewatch.MonitorState, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("load state",
			"target", target,
			"has_value", state != nil && state.HasValue(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadState(ctx, target)
}

// SaveState delegates to the wrapped store and logs the write.
func (s *LoggingStateStore) SaveState(ctx context.Context, target string, state *pagewatch.MonitorState) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save state",
			"target", target,
			"changes_today", state.ChangesToday,
			"last_summary_day", state.LastSummaryDay,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveState(ctx, target, state)
}
