// Package pagewatch watches a single web page for changes to one extracted value.
// It fetches the page, pulls a scalar out of it with a CSS selector or a regular
// expression, compares it with the last observed value, and notifies configured
// channels (email, voice, SMS) when the value changes. A once-per-day heartbeat
// reports when nothing changed.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, twilio/).
package pagewatch
