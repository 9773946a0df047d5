package pagewatch

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// NotificationKind identifies what a Notification reports.
type NotificationKind string

// NotificationKind constants.
const (
	ChangeAlert          NotificationKind = "change"
	DailyAlert           NotificationKind = "daily"
	ExtractionErrorAlert NotificationKind = "extraction_error"
	TestAlert            NotificationKind = "test"
)

// FirstRunLabel is shown in place of the old value when a change establishes
// the first baseline.
const FirstRunLabel = "(none - first run)"

// Notification is an intent to tell someone about a monitoring event.
// Which fields are set depends on Kind.
type Notification struct {
	Kind   NotificationKind
	Target string
	Time   time.Time

	// Change alerts. OldValue is nil on the first observed value.
	OldValue *string
	NewValue string

	// Daily alerts.
	Day string

	// Extraction error alerts.
	Error string
}

// OldValueText returns the old value for display.
func (n *Notification) OldValueText() string {
	if n.OldValue == nil {
		return FirstRunLabel
	}
	return *n.OldValue
}

// Subject returns a short title for the notification.
func (n *Notification) Subject() string {
	switch n.Kind {
	case ChangeAlert:
		return "Change detected"
	case DailyAlert:
		return "No changes detected"
	case ExtractionErrorAlert:
		return "Extraction failed"
	case TestAlert:
		return "Test notification"
	}
	return "Notification"
}

// Body returns the plain-text message body.
func (n *Notification) Body() string {
	var b strings.Builder
	switch n.Kind {
	case ChangeAlert:
		b.WriteString("A change was detected.\n\n")
		fmt.Fprintf(&b, "URL: %s\n", n.Target)
		fmt.Fprintf(&b, "Old value: %s\n", n.OldValueText())
		fmt.Fprintf(&b, "New value: %s\n", n.NewValue)
		fmt.Fprintf(&b, "Time (UTC): %s\n", n.Time.UTC().Format(time.RFC3339))
	case DailyAlert:
		fmt.Fprintf(&b, "No changes detected for %s (UTC).\n", n.Day)
		fmt.Fprintf(&b, "URL: %s\n", n.Target)
	case ExtractionErrorAlert:
		b.WriteString("The watched value could not be read.\n\n")
		fmt.Fprintf(&b, "URL: %s\n", n.Target)
		fmt.Fprintf(&b, "Error: %s\n", n.Error)
		fmt.Fprintf(&b, "Time (UTC): %s\n", n.Time.UTC().Format(time.RFC3339))
	default:
		b.WriteString("This is a test notification from your page monitor. It works!\n")
		if n.Target != "" {
			fmt.Fprintf(&b, "URL: %s\n", n.Target)
		}
	}
	return b.String()
}

// Summary returns a one-line rendering suitable for SMS or speech.
func (n *Notification) Summary() string {
	switch n.Kind {
	case ChangeAlert:
		return fmt.Sprintf("Monitor alert: value changed from %s to %s.", n.OldValueText(), n.NewValue)
	case DailyAlert:
		return fmt.Sprintf("Monitor: no changes detected for %s.", n.Day)
	case ExtractionErrorAlert:
		return "Monitor error: the watched value could not be read."
	}
	return "This is a test message from your page monitor. It works!"
}

// Notifier delivers notifications over a single channel.
type Notifier interface {
	// Send delivers n. Failures are returned as EDELIVERY errors.
	Send(ctx context.Context, n *Notification) error
}

// ReportRenderer renders a change notification to a document on disk.
type ReportRenderer interface {
	// RenderReport writes a report for n and returns its file path.
	RenderReport(n *Notification) (path string, err error)
}
