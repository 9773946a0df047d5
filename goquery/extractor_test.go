package goquery_test

import (
	"testing"

	"github.com/fwojciec/pagewatch"
	"github.com/fwojciec/pagewatch/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<head><title>Reservations</title></head>
<body>
  <div id="availability">
    <span class="month">
      March
    </span>
    <span class="month">April</span>
  </div>
  <p id="blank">   </p>
  <p id="nested">Open <b>for</b>
     booking</p>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	e := goquery.NewExtractor()

	t.Run("returns trimmed text of first match", func(t *testing.T) {
		t.Parallel()

		got, err := e.Extract(page, pagewatch.SelectorRule("#availability .month"))

		require.NoError(t, err)
		assert.Equal(t, "March", got)
	})

	t.Run("collapses whitespace across nested elements", func(t *testing.T) {
		t.Parallel()

		got, err := e.Extract(page, pagewatch.SelectorRule("#nested"))

		require.NoError(t, err)
		assert.Equal(t, "Open for booking", got)
	})

	t.Run("missing element is not found", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page, pagewatch.SelectorRule("#missing"))

		require.Error(t, err)
		assert.Equal(t, pagewatch.ENOTFOUND, pagewatch.ErrorCode(err))
		assert.True(t, pagewatch.IsExtractionError(err))
	})

	t.Run("element without text is empty", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page, pagewatch.SelectorRule("#blank"))

		assert.Equal(t, pagewatch.EEMPTY, pagewatch.ErrorCode(err))
	})

	t.Run("malformed selector is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page, pagewatch.SelectorRule("div[["))

		assert.Equal(t, pagewatch.EINVALID, pagewatch.ErrorCode(err))
	})

	t.Run("rejects pattern rules", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page, pagewatch.PatternRule(`(March)`))

		assert.Equal(t, pagewatch.EINVALID, pagewatch.ErrorCode(err))
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		rule := pagewatch.SelectorRule(".month")
		first, err := e.Extract(page, rule)
		require.NoError(t, err)
		second, err := e.Extract(page, rule)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestValidateSelector(t *testing.T) {
	t.Parallel()

	require.NoError(t, goquery.ValidateSelector("#availability .month"))
	require.NoError(t, goquery.ValidateSelector("table tr:nth-child(2) > td"))
	assert.Equal(t, pagewatch.EINVALID, pagewatch.ErrorCode(goquery.ValidateSelector("div[[")))
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", goquery.NormalizeText("  a\n\tb   c  "))
	assert.Empty(t, goquery.NormalizeText(" \n "))
}
