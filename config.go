package pagewatch

import (
	"net/url"
	"time"
)

// DefaultFetchTimeout is used when MonitorConfig.FetchTimeout is zero.
const DefaultFetchTimeout = 30 * time.Second

// MonitorConfig describes the single target a process watches.
// It is constructed once at startup and passed to the tracker.
type MonitorConfig struct {
	// Target is the URL of the watched page.
	Target string

	// Rule extracts the watched value from the page.
	Rule ExtractionRule

	// FetchTimeout bounds a single page fetch.
	FetchTimeout time.Duration

	// NotifyOnError sends an ExtractionErrorAlert when a fetch or
	// extraction fails.
	NotifyOnError bool
}

// Validate returns an ECONFIG error if the target or rule is missing or malformed.
func (c *MonitorConfig) Validate() error {
	if c.Target == "" {
		return Errorf(ECONFIG, "target URL required")
	}
	u, err := url.Parse(c.Target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Errorf(ECONFIG, "invalid target URL %q", c.Target)
	}
	if err := c.Rule.Validate(); err != nil {
		return Errorf(ECONFIG, "%s", ErrorMessage(err))
	}
	return nil
}

// Timeout returns the fetch timeout, falling back to DefaultFetchTimeout.
func (c *MonitorConfig) Timeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return DefaultFetchTimeout
	}
	return c.FetchTimeout
}
