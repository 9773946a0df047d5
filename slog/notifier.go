package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagewatch"
)

// Ensure LoggingNotifier implements pagewatch.Notifier.
var _ pagewatch.Notifier = (*LoggingNotifier)(nil)

// LoggingNotifier wraps a Notifier with debug logging.
type LoggingNotifier struct {
	next    pagewatch.Notifier
	channel string
	logger  *slog.Logger
}

// NewLoggingNotifier creates a new LoggingNotifier for the named channel.
func NewLoggingNotifier(next pagewatch.Notifier, channel string, logger *slog.Logger) *LoggingNotifier {
	return &LoggingNotifier{next: next, channel: channel, logger: logger}
}

// Send delegates to the wrapped notifier and logs the attempt.
func (n *LoggingNotifier) Send(ctx context.Context, notification *pagewatch.Notification) (err error) {
	defer func(begin time.Time) {
		n.logger.Debug("send",
			"channel", n.channel,
			"kind", string(notification.Kind),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.Send(ctx, notification)
}
