// Package twilio delivers notifications as voice calls and SMS through the
// Twilio REST API.
package twilio

import (
	"context"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/pagewatch"
	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the Twilio REST API endpoint.
const DefaultBaseURL = "https://api.twilio.com"

// DefaultTimeout bounds each API request.
const DefaultTimeout = 30 * time.Second

const (
	callsPath    = "/2010-04-01/Accounts/{sid}/Calls.json"
	messagesPath = "/2010-04-01/Accounts/{sid}/Messages.json"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(url)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// Client places calls and sends messages from a single Twilio number.
type Client struct {
	http *resty.Client
	sid  string
	from string
}

// NewClient creates a Client authenticating as account sid with token.
func NewClient(sid, token, from string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetBasicAuth(sid, token).
			SetTimeout(DefaultTimeout).
			SetPathParam("sid", sid),
		sid:  sid,
		from: from,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// resource is the subset of a created call or message the client reads.
type resource struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// apiError is the error body returned by the API.
type apiError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

// Call places a voice call to "to" that plays twiml and returns the call SID.
func (c *Client) Call(ctx context.Context, to, twiml string) (string, error) {
	return c.create(ctx, callsPath, map[string]string{
		"To":    to,
		"From":  c.from,
		"Twiml": twiml,
	})
}

// Message sends an SMS to "to" and returns the message SID.
func (c *Client) Message(ctx context.Context, to, body string) (string, error) {
	return c.create(ctx, messagesPath, map[string]string{
		"To":   to,
		"From": c.from,
		"Body": body,
	})
}

func (c *Client) create(ctx context.Context, path string, form map[string]string) (string, error) {
	var (
		out    resource
		failed apiError
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&out).
		SetError(&failed).
		Post(path)
	if err != nil {
		return "", pagewatch.Errorf(pagewatch.EDELIVERY, "twilio request: %v", err)
	}
	if resp.IsError() {
		if failed.Message != "" {
			return "", pagewatch.Errorf(pagewatch.EDELIVERY, "twilio %d: %s (code %d)", resp.StatusCode(), failed.Message, failed.Code)
		}
		return "", pagewatch.Errorf(pagewatch.EDELIVERY, "twilio: unexpected status %d", resp.StatusCode())
	}
	return out.SID, nil
}

// TwiML returns a voice document that speaks text.
func TwiML(text string) (string, error) {
	doc := etree.NewDocument()
	say := doc.CreateElement("Response").CreateElement("Say")
	say.SetText(text)
	return doc.WriteToString()
}
