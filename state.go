package pagewatch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DayLayout is the layout of calendar-day keys (UTC).
const DayLayout = "2006-01-02"

// DayKey returns the UTC calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// HashValue returns the lowercase hex SHA-256 digest of v.
func HashValue(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}

// MonitorState is the persisted record for one monitored target.
// Optional fields are nil until first set. JSON field names match the
// state files written by earlier versions of the monitor.
type MonitorState struct {
	LastValue      *string    `json:"last_value"`
	LastValueHash  *string    `json:"last_value_hash"`
	LastChangeAt   *time.Time `json:"last_change_ts"`
	ChangesToday   bool       `json:"changes_today"`
	LastSummaryDay string     `json:"last_summary_day,omitempty"`
}

// HasValue reports whether a baseline value has been recorded.
func (s *MonitorState) HasValue() bool {
	return s.LastValue != nil && s.LastValueHash != nil
}

// Matches reports whether hash equals the stored value hash.
// An absent stored hash never matches.
func (s *MonitorState) Matches(hash string) bool {
	return s.LastValueHash != nil && *s.LastValueHash == hash
}

// SetValue records v as the last observed value together with its hash.
func (s *MonitorState) SetValue(v string) {
	h := HashValue(v)
	s.LastValue = &v
	s.LastValueHash = &h
}

// ClearValue forgets the last observed value and its hash.
func (s *MonitorState) ClearValue() {
	s.LastValue = nil
	s.LastValueHash = nil
	s.LastChangeAt = nil
}

// Clone returns a deep copy of the state.
func (s *MonitorState) Clone() *MonitorState {
	other := &MonitorState{
		ChangesToday:   s.ChangesToday,
		LastSummaryDay: s.LastSummaryDay,
	}
	if s.LastValue != nil {
		v := *s.LastValue
		other.LastValue = &v
	}
	if s.LastValueHash != nil {
		h := *s.LastValueHash
		other.LastValueHash = &h
	}
	if s.LastChangeAt != nil {
		ts := *s.LastChangeAt
		other.LastChangeAt = &ts
	}
	return other
}

// Validate returns an error if the value and its hash are out of step.
func (s *MonitorState) Validate() error {
	if (s.LastValue == nil) != (s.LastValueHash == nil) {
		return Errorf(EINVALID, "last value and last value hash must be set together")
	}
	if s.LastValue != nil && HashValue(*s.LastValue) != *s.LastValueHash {
		return Errorf(EINVALID, "last value hash does not match last value")
	}
	if s.LastSummaryDay != "" {
		if _, err := time.Parse(DayLayout, s.LastSummaryDay); err != nil {
			return Errorf(EINVALID, "invalid last summary day %q", s.LastSummaryDay)
		}
	}
	return nil
}

// StateStore persists one MonitorState per target.
// Implementations are not safe for concurrent writers on the same target;
// callers serialize invocations.
type StateStore interface {
	// LoadState returns the state for target, or an empty state if none
	// has been saved yet.
	LoadState(ctx context.Context, target string) (*MonitorState, error)

	// SaveState replaces the persisted state for target.
	SaveState(ctx context.Context, target string, state *MonitorState) error
}
