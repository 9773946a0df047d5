package pagewatch_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/pagewatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "9d95a2cf0d7180b5089691163b188a7203b0cde179346b8cfaa8ab6c2c3e6414", pagewatch.HashValue("March"))
	assert.NotEqual(t, pagewatch.HashValue("March"), pagewatch.HashValue("April"))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", pagewatch.HashValue(""))
}

func TestDayKey(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-5", -5*60*60)
	ts := time.Date(2025, 3, 1, 22, 30, 0, 0, loc)

	assert.Equal(t, "2025-03-02", pagewatch.DayKey(ts))
}

func TestMonitorState_SetValue(t *testing.T) {
	t.Parallel()

	var s pagewatch.MonitorState
	assert.False(t, s.HasValue())
	assert.False(t, s.Matches(pagewatch.HashValue("")), "absent hash never matches")

	s.SetValue("April")

	require.True(t, s.HasValue())
	assert.Equal(t, "April", *s.LastValue)
	assert.Equal(t, pagewatch.HashValue("April"), *s.LastValueHash)
	assert.True(t, s.Matches(pagewatch.HashValue("April")))
	require.NoError(t, s.Validate())
}

func TestMonitorState_ClearValue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := pagewatch.MonitorState{ChangesToday: true, LastSummaryDay: "2025-02-28", LastChangeAt: &now}
	s.SetValue("March")

	s.ClearValue()

	assert.Nil(t, s.LastValue)
	assert.Nil(t, s.LastValueHash)
	assert.Nil(t, s.LastChangeAt)
	assert.True(t, s.ChangesToday, "summary fields are left alone")
	assert.Equal(t, "2025-02-28", s.LastSummaryDay)
}

func TestMonitorState_Clone(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &pagewatch.MonitorState{LastChangeAt: &now, ChangesToday: true}
	s.SetValue("March")

	c := s.Clone()
	c.SetValue("April")
	later := now.Add(time.Hour)
	c.LastChangeAt = &later

	assert.Equal(t, "March", *s.LastValue)
	assert.Equal(t, now, *s.LastChangeAt)
	assert.Equal(t, "April", *c.LastValue)
}

func TestMonitorState_Validate(t *testing.T) {
	t.Parallel()

	t.Run("empty state is valid", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, (&pagewatch.MonitorState{}).Validate())
	})

	t.Run("value without hash is invalid", func(t *testing.T) {
		t.Parallel()

		v := "March"
		err := (&pagewatch.MonitorState{LastValue: &v}).Validate()
		assert.Equal(t, pagewatch.EINVALID, pagewatch.ErrorCode(err))
	})

	t.Run("mismatched hash is invalid", func(t *testing.T) {
		t.Parallel()

		v, h := "March", pagewatch.HashValue("April")
		err := (&pagewatch.MonitorState{LastValue: &v, LastValueHash: &h}).Validate()
		assert.Equal(t, pagewatch.EINVALID, pagewatch.ErrorCode(err))
	})

	t.Run("malformed summary day is invalid", func(t *testing.T) {
		t.Parallel()

		err := (&pagewatch.MonitorState{LastSummaryDay: "yesterday"}).Validate()
		assert.Equal(t, pagewatch.EINVALID, pagewatch.ErrorCode(err))
	})
}

func TestMonitorState_JSONCompatibility(t *testing.T) {
	t.Parallel()

	// Layout written by earlier versions of the monitor.
	raw := `{
  "last_value": "March",
  "last_value_hash": "` + pagewatch.HashValue("March") + `",
  "last_change_ts": "2025-03-01T12:00:00.123456+00:00",
  "changes_today": true,
  "last_summary_day": null
}`

	var s pagewatch.MonitorState
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	require.NotNil(t, s.LastValue)
	assert.Equal(t, "March", *s.LastValue)
	require.NotNil(t, s.LastChangeAt)
	assert.Equal(t, 2025, s.LastChangeAt.Year())
	assert.True(t, s.ChangesToday)
	assert.Empty(t, s.LastSummaryDay)
	require.NoError(t, s.Validate())
}
