package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/pagewatch"
)

// Compile-time interface verification.
var _ pagewatch.StateStore = (*StateService)(nil)

// StateService implements pagewatch.StateStore using SQLite.
type StateService struct {
	db *DB
}

// NewStateService creates a new StateService.
func NewStateService(db *DB) *StateService {
	return &StateService{db: db}
}

// LoadState retrieves the state for target. A target with no row yields an
// empty state.
func (s *StateService) LoadState(ctx context.Context, target string) (*pagewatch.MonitorState, error) {
	var (
		st                    pagewatch.MonitorState
		value, hash, changeAt sql.NullString
		changesToday          int
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT last_value, last_value_hash, last_change_at, changes_today, last_summary_day
		FROM monitor_state
		WHERE target = ?
	`, target).Scan(&value, &hash, &changeAt, &changesToday, &st.LastSummaryDay)

	if errors.Is(err, sql.ErrNoRows) {
		return &pagewatch.MonitorState{}, nil
	}
	if err != nil {
		return nil, err
	}

	st.LastValue = stringPtr(value)
	st.LastValueHash = stringPtr(hash)
	st.ChangesToday = changesToday != 0
	if changeAt.Valid {
		ts, err := parseRFC3339(changeAt.String, "last_change_at")
		if err != nil {
			return nil, err
		}
		st.LastChangeAt = &ts
	}

	if err := st.Validate(); err != nil {
		return nil, err
	}
	return &st, nil
}

// SaveState inserts or replaces the state row for target.
func (s *StateService) SaveState(ctx context.Context, target string, state *pagewatch.MonitorState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	var changeAt sql.NullString
	if state.LastChangeAt != nil {
		changeAt = sql.NullString{String: state.LastChangeAt.UTC().Format(time.RFC3339Nano), Valid: true}
	}
	changesToday := 0
	if state.ChangesToday {
		changesToday = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monitor_state (target, last_value, last_value_hash, last_change_at, changes_today, last_summary_day, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(target) DO UPDATE SET
			last_value = excluded.last_value,
			last_value_hash = excluded.last_value_hash,
			last_change_at = excluded.last_change_at,
			changes_today = excluded.changes_today,
			last_summary_day = excluded.last_summary_day,
			updated_at = excluded.updated_at
	`, target, nullString(state.LastValue), nullString(state.LastValueHash), changeAt,
		changesToday, state.LastSummaryDay, time.Now().UTC().Format(time.RFC3339))

	return err
}
