package monitor

import (
	"context"
	"log/slog"
	"slices"

	"github.com/fwojciec/pagewatch"
)

// Channel names a notifier and the notification kinds it accepts.
type Channel struct {
	Name     string
	Notifier pagewatch.Notifier

	// Kinds limits which notifications the channel receives.
	// Empty accepts every kind.
	Kinds []pagewatch.NotificationKind
}

// Accepts reports whether the channel should receive a notification of kind k.
func (c Channel) Accepts(k pagewatch.NotificationKind) bool {
	return len(c.Kinds) == 0 || slices.Contains(c.Kinds, k)
}

// DispatchReport records the delivery result of each attempted channel.
type DispatchReport struct {
	// Delivered lists channels that accepted the notification, in order.
	Delivered []string

	// Failed maps channel name to its delivery error.
	Failed map[string]error
}

// Attempted returns the number of channels a delivery was attempted on.
func (r *DispatchReport) Attempted() int {
	return len(r.Delivered) + len(r.Failed)
}

// Dispatcher fans a notification out to its channels one after another.
// A failing channel never stops delivery to the ones after it.
type Dispatcher struct {
	Channels []Channel
	Logger   *slog.Logger
}

// Dispatch sends n to every channel that accepts its kind. Delivery errors
// are logged and reported, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, n *pagewatch.Notification) *DispatchReport {
	report := &DispatchReport{Failed: make(map[string]error)}
	if d == nil {
		return report
	}
	logger := loggerOrDiscard(d.Logger)

	for _, ch := range d.Channels {
		if !ch.Accepts(n.Kind) {
			continue
		}
		if err := ch.Notifier.Send(ctx, n); err != nil {
			report.Failed[ch.Name] = err
			logger.Error("delivery failed",
				"channel", ch.Name,
				"kind", string(n.Kind),
				"err", err,
			)
			continue
		}
		report.Delivered = append(report.Delivered, ch.Name)
		logger.Info("notification delivered",
			"channel", ch.Name,
			"kind", string(n.Kind),
		)
	}

	return report
}

// Only returns a dispatcher restricted to the named channel.
// An unknown name yields ENOTFOUND.
func (d *Dispatcher) Only(name string) (*Dispatcher, error) {
	for _, ch := range d.Channels {
		if ch.Name == name {
			return &Dispatcher{Channels: []Channel{ch}, Logger: d.Logger}, nil
		}
	}
	return nil, pagewatch.Errorf(pagewatch.ENOTFOUND, "notification channel %q is not configured", name)
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
