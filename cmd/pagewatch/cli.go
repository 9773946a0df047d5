package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/pagewatch"
	pwemail "github.com/fwojciec/pagewatch/email"
	"github.com/fwojciec/pagewatch/goquery"
	"github.com/fwojciec/pagewatch/monitor"
	"github.com/go-playground/validator/v10"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Tracker *monitor.Tracker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Check        CheckCmd        `cmd:"" help:"Fetch the page and record the watched value"`
	DailySummary DailySummaryCmd `cmd:"" name:"daily-summary" help:"Send the once-per-day 'no changes' notification if needed"`
	Seed         SeedCmd         `cmd:"" help:"Record a baseline value without notifying"`
	Reset        ResetCmd        `cmd:"" help:"Forget the last observed value"`
	Status       StatusCmd       `cmd:"" help:"Show the persisted state"`
	TestNotify   TestNotifyCmd   `cmd:"" name:"test-notify" help:"Send a test notification"`
}

// Globals are the flags shared by every command. Each one can also be set
// through its environment variable.
type Globals struct {
	URL      string `name:"url" env:"MONITOR_URL" help:"Page to watch" validate:"omitempty,url"`
	Selector string `name:"selector" env:"MONITOR_CSS_SELECTOR" help:"CSS selector of the watched element" validate:"excluded_with=Pattern"`
	Pattern  string `name:"pattern" env:"MONITOR_REGEX_CAPTURE" help:"Regular expression with one capture group" validate:"excluded_with=Selector"`
	Timeout  int    `name:"timeout" env:"MONITOR_TIMEOUT_SEC" default:"30" help:"Fetch timeout in seconds" validate:"gt=0,lte=600"`
	Render   bool   `name:"render" env:"MONITOR_RENDER" help:"Render the page in a headless browser before extracting"`

	NotifyOnError bool `name:"notify-on-error" env:"MONITOR_NOTIFY_ON_ERROR" help:"Notify when the value cannot be read"`

	Store    string `name:"store" env:"MONITOR_STORE" enum:"file,sqlite" default:"file" help:"State backend (file or sqlite)"`
	StateDir string `name:"state-dir" env:"MONITOR_STATE_DIR" default:"./state" help:"Directory of state files" validate:"required_if=Store file"`
	StateDB  string `name:"state-db" env:"MONITOR_STATE_DB" default:"./monitor.db" help:"SQLite state database" validate:"required_if=Store sqlite"`
	PDFDir   string `name:"pdf-dir" env:"MONITOR_PDF_DIR" default:"./pdf_changes" help:"Directory of change reports"`
	LogDir   string `name:"log-dir" env:"MONITOR_LOG_DIR" default:"./logs" help:"Directory of monitor.log"`
	LogLevel string `name:"log-level" env:"MONITOR_LOG_LEVEL" default:"info" help:"Log level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`

	SMTP   SMTPFlags   `embed:"" prefix:"smtp-" group:"Email"`
	Mail   MailFlags   `embed:"" prefix:"mail-" group:"Email"`
	Twilio TwilioFlags `embed:"" prefix:"twilio-" group:"Twilio"`
}

// SMTPFlags configure the mail server.
type SMTPFlags struct {
	Host     string `name:"host" env:"SMTP_HOST" help:"SMTP server host" validate:"omitempty,hostname|ip"`
	Port     int    `name:"port" env:"SMTP_PORT" default:"587" help:"SMTP server port" validate:"gt=0,lte=65535"`
	User     string `name:"user" env:"SMTP_USER" help:"SMTP user"`
	Password string `name:"pass" env:"SMTP_PASS" help:"SMTP password"`
}

// MailFlags configure the email envelope.
type MailFlags struct {
	From          string `name:"from" env:"MAIL_FROM" help:"Sender address (defaults to the SMTP user)"`
	To            string `name:"to" env:"MAIL_TO" help:"Comma-separated recipient addresses"`
	SubjectPrefix string `name:"subject-prefix" env:"MAIL_SUBJECT_PREFIX" default:"[Monitor]" help:"Subject prefix"`
}

// TwilioFlags configure the voice and SMS channels.
type TwilioFlags struct {
	SID  string `name:"sid" env:"TWILIO_SID" help:"Twilio account SID"`
	Auth string `name:"auth" env:"TWILIO_AUTH" help:"Twilio auth token"`
	From string `name:"from" env:"TWILIO_FROM" help:"Calling number" validate:"omitempty,e164"`
	To   string `name:"to" env:"TWILIO_TO" help:"Number to call and text" validate:"omitempty,e164"`
	Call bool   `name:"call" env:"MONITOR_CALL_ENABLED" default:"true" negatable:"" help:"Place voice calls on change"`
	SMS  bool   `name:"sms" env:"MONITOR_SMS_ENABLED" default:"true" negatable:"" help:"Send SMS notifications"`
}

// Configured reports whether every Twilio credential is present.
func (f TwilioFlags) Configured() bool {
	return f.SID != "" && f.Auth != "" && f.From != "" && f.To != ""
}

// Validate checks flag values and returns an ECONFIG error describing the
// first problem found.
func (g *Globals) Validate() error {
	if err := validator.New().Struct(g); err != nil {
		return pagewatch.Errorf(pagewatch.ECONFIG, "invalid configuration: %s", describe(err))
	}
	if g.Selector != "" {
		if err := goquery.ValidateSelector(g.Selector); err != nil {
			return pagewatch.Errorf(pagewatch.ECONFIG, "%s", pagewatch.ErrorMessage(err))
		}
	}
	if rule := g.rule(); rule.Kind != "" {
		if err := rule.Validate(); err != nil {
			return pagewatch.Errorf(pagewatch.ECONFIG, "%s", pagewatch.ErrorMessage(err))
		}
	}
	return nil
}

// MonitorConfig builds the tracker configuration from the flags.
func (g *Globals) MonitorConfig() pagewatch.MonitorConfig {
	return pagewatch.MonitorConfig{
		Target:        g.URL,
		Rule:          g.rule(),
		FetchTimeout:  time.Duration(g.Timeout) * time.Second,
		NotifyOnError: g.NotifyOnError,
	}
}

// EmailConfig builds the email channel configuration from the flags.
func (g *Globals) EmailConfig() pwemail.Config {
	from := g.Mail.From
	if from == "" {
		from = g.SMTP.User
	}
	return pwemail.Config{
		Host:          g.SMTP.Host,
		Port:          g.SMTP.Port,
		User:          g.SMTP.User,
		Password:      g.SMTP.Password,
		From:          from,
		To:            pwemail.ParseRecipients(g.Mail.To),
		SubjectPrefix: g.Mail.SubjectPrefix,
	}
}

func (g *Globals) rule() pagewatch.ExtractionRule {
	switch {
	case g.Selector != "":
		return pagewatch.SelectorRule(g.Selector)
	case g.Pattern != "":
		return pagewatch.PatternRule(g.Pattern)
	}
	return pagewatch.ExtractionRule{}
}

// describe renders validator errors as "field: rule" pairs.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("%s fails %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s fails %s", fe.Namespace(), fe.Tag())
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Value string `name:"value" help:"Record this value instead of fetching the page"`
}

// DailySummaryCmd is the "daily-summary" subcommand.
type DailySummaryCmd struct {
	Force bool `short:"f" help:"Send even if today's summary was already handled"`
}

// SeedCmd is the "seed" subcommand.
type SeedCmd struct {
	Value string `arg:"" help:"Baseline value"`
}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct{}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	JSON bool `help:"Print the state as JSON"`
}

// TestNotifyCmd is the "test-notify" subcommand.
type TestNotifyCmd struct {
	Channel string `name:"channel" help:"Only this channel (email, call or sms)" validate:"omitempty,oneof=email call sms"`
}
