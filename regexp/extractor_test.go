package regexp_test

import (
	"testing"

	"github.com/fwojciec/pagewatch"
	"github.com/fwojciec/pagewatch/regexp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<h2>RESERVATIONS
  FOR   April</h2>
<p>Next opening: <em>  </em></p>
</body></html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	e := regexp.NewExtractor()

	t.Run("matches case-insensitively across lines", func(t *testing.T) {
		t.Parallel()

		got, err := e.Extract(page, pagewatch.PatternRule(`Reservations\s+for\s+([A-Za-z]+)`))

		require.NoError(t, err)
		assert.Equal(t, "April", got)
	})

	t.Run("dot spans line breaks", func(t *testing.T) {
		t.Parallel()

		got, err := e.Extract(page, pagewatch.PatternRule(`<h2>(.*?)</h2>`))

		require.NoError(t, err)
		assert.Equal(t, "RESERVATIONS\n  FOR   April", got)
	})

	t.Run("no match is not found", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page, pagewatch.PatternRule(`Closed until (\w+)`))

		assert.Equal(t, pagewatch.ENOTFOUND, pagewatch.ErrorCode(err))
	})

	t.Run("empty group is not found", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page, pagewatch.PatternRule(`<h2>(x*)RESERVATIONS`))

		assert.Equal(t, pagewatch.ENOTFOUND, pagewatch.ErrorCode(err))
	})

	t.Run("whitespace-only group is empty", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page, pagewatch.PatternRule(`<em>(.*?)</em>`))

		assert.Equal(t, pagewatch.EEMPTY, pagewatch.ErrorCode(err))
	})

	t.Run("pattern without capture group is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page, pagewatch.PatternRule(`April`))

		assert.Equal(t, pagewatch.EINVALID, pagewatch.ErrorCode(err))
	})

	t.Run("rejects selector rules", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page, pagewatch.SelectorRule("h2"))

		assert.Equal(t, pagewatch.EINVALID, pagewatch.ErrorCode(err))
	})
}

func TestCompile(t *testing.T) {
	t.Parallel()

	re, err := regexp.Compile(`for\s+(\w+)`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("FOR\nmay"))

	_, err = regexp.Compile(`(a)(b)`)
	assert.Equal(t, pagewatch.EINVALID, pagewatch.ErrorCode(err))

	_, err = regexp.Compile(`(a`)
	assert.Equal(t, pagewatch.EINVALID, pagewatch.ErrorCode(err))
}
