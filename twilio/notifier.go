package twilio

import (
	"context"

	"github.com/fwojciec/pagewatch"
)

// Ensure notifiers implement pagewatch.Notifier at compile time.
var (
	_ pagewatch.Notifier = (*CallNotifier)(nil)
	_ pagewatch.Notifier = (*SMSNotifier)(nil)
)

// CallNotifier reads notifications aloud over a voice call.
type CallNotifier struct {
	client *Client
	to     string
}

// NewCallNotifier creates a CallNotifier dialing to.
func NewCallNotifier(client *Client, to string) *CallNotifier {
	return &CallNotifier{client: client, to: to}
}

// Send places a call that speaks the notification summary.
func (n *CallNotifier) Send(ctx context.Context, note *pagewatch.Notification) error {
	twiml, err := TwiML(note.Summary())
	if err != nil {
		return pagewatch.Errorf(pagewatch.EDELIVERY, "build twiml: %v", err)
	}
	_, err = n.client.Call(ctx, n.to, twiml)
	return err
}

// SMSNotifier sends notifications as text messages.
type SMSNotifier struct {
	client *Client
	to     string
}

// NewSMSNotifier creates an SMSNotifier texting to.
func NewSMSNotifier(client *Client, to string) *SMSNotifier {
	return &SMSNotifier{client: client, to: to}
}

// Send texts the notification summary.
func (n *SMSNotifier) Send(ctx context.Context, note *pagewatch.Notification) error {
	_, err := n.client.Message(ctx, n.to, note.Summary())
	return err
}
