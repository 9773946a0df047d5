package pagewatch

import "time"

// CheckOutcome is the result category of a check.
type CheckOutcome string

// CheckOutcome constants.
const (
	NoChange         CheckOutcome = "no_change"
	Changed          CheckOutcome = "changed"
	ExtractionFailed CheckOutcome = "extraction_failed"
)

// CheckResult describes what a check observed.
type CheckResult struct {
	Outcome   CheckOutcome
	CheckedAt time.Time

	// OldValue is nil when Changed establishes the first baseline.
	OldValue *string
	NewValue string

	// Err is set only for ExtractionFailed.
	Err error
}

// FirstRun reports whether a Changed result established the first baseline.
func (r *CheckResult) FirstRun() bool {
	return r.Outcome == Changed && r.OldValue == nil
}

// SummaryOutcome is the result category of a daily summary.
type SummaryOutcome string

// SummaryOutcome constants.
const (
	AlreadySent            SummaryOutcome = "already_sent"
	SkippedChangesOccurred SummaryOutcome = "skipped_changes_occurred"
	Sent                   SummaryOutcome = "sent"
)

// SummaryResult describes what a daily summary did.
type SummaryResult struct {
	Outcome SummaryOutcome
	Day     string
}
