package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagewatch"
	pwemail "github.com/fwojciec/pagewatch/email"
	"github.com/fwojciec/pagewatch/fpdf"
	"github.com/fwojciec/pagewatch/fs"
	"github.com/fwojciec/pagewatch/goquery"
	pwhttp "github.com/fwojciec/pagewatch/http"
	"github.com/fwojciec/pagewatch/monitor"
	pwregexp "github.com/fwojciec/pagewatch/regexp"
	"github.com/fwojciec/pagewatch/rod"
	pwslog "github.com/fwojciec/pagewatch/slog"
	"github.com/fwojciec/pagewatch/sqlite"
	"github.com/fwojciec/pagewatch/twilio"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// LogFileName is the name of the log file inside the log directory.
const LogFileName = "monitor.log"

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Nil fields are wired from flags.
	Fetcher  pagewatch.Fetcher
	Channels []monitor.Channel
	Now      func() time.Time

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases the log file, database and browser opened by Run.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments. Only configuration errors
// are returned; operational failures are logged.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagewatch"),
		kong.Description("Watch one value on a web page and notify when it changes"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return pagewatch.Errorf(pagewatch.ECONFIG, "no command specified. Run 'pagewatch --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return pagewatch.Errorf(pagewatch.ECONFIG, "%v", err)
	}
	if err := cli.Validate(); err != nil {
		return err
	}
	defer m.Close()

	logger := m.openLogger(&cli.Globals, stderr).With("run", uuid.NewString())
	deps.Logger = logger

	states, err := m.openStore(&cli.Globals)
	if err != nil {
		return err
	}

	deps.Tracker = &monitor.Tracker{
		Config: cli.MonitorConfig(),
		Extractor: &monitor.RuleExtractor{
			Selector: goquery.NewExtractor(),
			Pattern:  pwregexp.NewExtractor(),
		},
		States: pwslog.NewLoggingStateStore(states, logger),
		Dispatcher: &monitor.Dispatcher{
			Channels: m.channels(&cli.Globals, logger),
			Logger:   logger,
		},
		Logger: logger,
		Now:    m.Now,
	}

	// Only a fetching check needs a fetcher; rod would otherwise launch a
	// browser for nothing.
	if kongCtx.Command() == "check" && cli.Check.Value == "" {
		fetcher, err := m.openFetcher(&cli.Globals, stderr)
		if err != nil {
			return err
		}
		deps.Tracker.Fetcher = pwslog.NewLoggingFetcher(fetcher, logger)
	}

	return kongCtx.Run(deps)
}

// openLogger returns a logger writing to stderr and to the rotating log file.
func (m *Main) openLogger(g *Globals, stderr io.Writer) *slog.Logger {
	file := &lumberjack.Logger{
		Filename:   filepath.Join(g.LogDir, LogFileName),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		Compress:   true,
	}
	m.closers = append(m.closers, file)
	return pwslog.NewLogger(io.MultiWriter(stderr, file), pwslog.ParseLevel(g.LogLevel))
}

func (m *Main) openStore(g *Globals) (pagewatch.StateStore, error) {
	if g.Store != "sqlite" {
		return fs.NewStateStore(g.StateDir), nil
	}

	db := sqlite.NewDB(g.StateDB)
	if err := db.Open(); err != nil {
		return nil, pagewatch.Errorf(pagewatch.ECONFIG, "failed to open database at %q: %v. Hint: set MONITOR_STATE_DB to use a different path", g.StateDB, err)
	}
	m.closers = append(m.closers, db)
	return sqlite.NewStateService(db), nil
}

func (m *Main) openFetcher(g *Globals, stderr io.Writer) (pagewatch.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	timeout := time.Duration(g.Timeout) * time.Second
	if !g.Render {
		return pwhttp.NewFetcher(pwhttp.WithTimeout(timeout)), nil
	}

	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(timeout))
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
		return nil, pagewatch.Errorf(pagewatch.ECONFIG, "failed to start browser: %v", err)
	}
	m.closers = append(m.closers, fetcher)
	return fetcher, nil
}

// channels wires every notification channel whose settings are complete.
func (m *Main) channels(g *Globals, logger *slog.Logger) []monitor.Channel {
	if m.Channels != nil {
		return m.Channels
	}

	var channels []monitor.Channel

	if cfg := g.EmailConfig(); cfg.Enabled() {
		n := pwemail.NewNotifier(cfg, pwemail.WithRenderer(fpdf.NewRenderer(g.PDFDir)))
		channels = append(channels, monitor.Channel{
			Name:     "email",
			Notifier: pwslog.NewLoggingNotifier(n, "email", logger),
		})
	} else {
		logger.Info("email channel disabled", "reason", "SMTP settings incomplete")
	}

	if !g.Twilio.Configured() {
		logger.Debug("twilio channels disabled", "reason", "Twilio settings incomplete")
		return channels
	}

	client := twilio.NewClient(g.Twilio.SID, g.Twilio.Auth, g.Twilio.From)
	if g.Twilio.Call {
		channels = append(channels, monitor.Channel{
			Name:     "call",
			Notifier: pwslog.NewLoggingNotifier(twilio.NewCallNotifier(client, g.Twilio.To), "call", logger),
			Kinds:    []pagewatch.NotificationKind{pagewatch.ChangeAlert, pagewatch.TestAlert},
		})
	}
	if g.Twilio.SMS {
		channels = append(channels, monitor.Channel{
			Name:     "sms",
			Notifier: pwslog.NewLoggingNotifier(twilio.NewSMSNotifier(client, g.Twilio.To), "sms", logger),
		})
	}
	return channels
}

// fail reports err. Configuration errors are returned so the process exits
// non-zero; every other failure is logged and swallowed.
func (d *Dependencies) fail(op string, err error) error {
	if pagewatch.ErrorCode(err) == pagewatch.ECONFIG {
		fmt.Fprintf(d.Stderr, "error: %s\n", pagewatch.ErrorMessage(err))
		return err
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Error(op+" failed", "err", err)
	return nil
}
