// Package email delivers notifications over SMTP with STARTTLS.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/fwojciec/pagewatch"
	"github.com/jordan-wright/email"
)

// Ensure Notifier implements pagewatch.Notifier at compile time.
var _ pagewatch.Notifier = (*Notifier)(nil)

// DefaultSubjectPrefix is prepended to every subject.
const DefaultSubjectPrefix = "[Monitor]"

// Config holds SMTP settings.
type Config struct {
	Host          string
	Port          int
	User          string
	Password      string
	From          string
	To            []string
	SubjectPrefix string
}

// Enabled reports whether every setting needed to send mail is present.
func (c Config) Enabled() bool {
	return c.Host != "" && c.Port > 0 && c.User != "" && c.Password != "" && c.From != "" && len(c.To) > 0
}

// Addr returns the host:port of the SMTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SendFunc transmits a message to an SMTP server.
type SendFunc func(addr string, auth smtp.Auth, msg *email.Email) error

// Option configures a Notifier.
type Option func(*Notifier)

// WithRenderer attaches a rendered report to change alerts.
func WithRenderer(r pagewatch.ReportRenderer) Option {
	return func(n *Notifier) {
		n.renderer = r
	}
}

// WithSendFunc replaces the SMTP transport.
func WithSendFunc(fn SendFunc) Option {
	return func(n *Notifier) {
		n.send = fn
	}
}

// Notifier sends notifications as plain-text email.
type Notifier struct {
	cfg      Config
	renderer pagewatch.ReportRenderer
	send     SendFunc
}

// NewNotifier creates a Notifier. Without options, change alerts carry no
// attachment and mail goes out over STARTTLS.
func NewNotifier(cfg Config, opts ...Option) *Notifier {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DefaultSubjectPrefix
	}
	n := &Notifier{cfg: cfg}
	n.send = func(addr string, auth smtp.Auth, msg *email.Email) error {
		return msg.SendWithStartTLS(addr, auth, &tls.Config{ServerName: n.cfg.Host})
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Message builds the email for a notification without sending it.
func (n *Notifier) Message(note *pagewatch.Notification) *email.Email {
	msg := email.NewEmail()
	msg.From = n.cfg.From
	msg.To = n.cfg.To
	msg.Subject = strings.TrimSpace(n.cfg.SubjectPrefix + " " + note.Subject())
	body := note.Body()

	if note.Kind == pagewatch.ChangeAlert && n.renderer != nil {
		path, err := n.renderer.RenderReport(note)
		if err == nil {
			_, err = msg.AttachFile(path)
		}
		if err != nil {
			body += fmt.Sprintf("\nThe PDF report could not be attached: %v\n", err)
		}
	}

	msg.Text = []byte(body)
	return msg
}

// Send delivers note to the configured recipients.
func (n *Notifier) Send(_ context.Context, note *pagewatch.Notification) error {
	if !n.cfg.Enabled() {
		return pagewatch.Errorf(pagewatch.ECONFIG, "email is not fully configured")
	}

	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	if err := n.send(n.cfg.Addr(), auth, n.Message(note)); err != nil {
		return pagewatch.Errorf(pagewatch.EDELIVERY, "send email: %v", err)
	}
	return nil
}

// ParseRecipients splits a comma-separated address list.
func ParseRecipients(s string) []string {
	var out []string
	for _, addr := range strings.Split(s, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
