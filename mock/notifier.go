package mock

import (
	"context"

	"github.com/fwojciec/pagewatch"
)

var _ pagewatch.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of pagewatch.Notifier.
type Notifier struct {
	SendFn func(ctx context.Context, n *pagewatch.Notification) error
}

func (n *Notifier) Send(ctx context.Context, notification *pagewatch.Notification) error {
	return n.SendFn(ctx, notification)
}

var _ pagewatch.ReportRenderer = (*ReportRenderer)(nil)

// ReportRenderer is a mock implementation of pagewatch.ReportRenderer.
type ReportRenderer struct {
	RenderReportFn func(n *pagewatch.Notification) (string, error)
}

func (r *ReportRenderer) RenderReport(n *pagewatch.Notification) (string, error) {
	return r.RenderReportFn(n)
}
