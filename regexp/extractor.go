// Package regexp extracts watched values from raw page content using
// regular expressions.
package regexp

import (
	"regexp"
	"strings"

	"github.com/fwojciec/pagewatch"
)

// Ensure Extractor implements pagewatch.Extractor at compile time.
var _ pagewatch.Extractor = (*Extractor)(nil)

// flags make matching case-insensitive and let "." span line breaks,
// so patterns tolerate markup split across lines.
const flags = "(?is)"

// Extractor returns capture group 1 of the first match of a pattern rule.
type Extractor struct{}

// NewExtractor creates a new pattern Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract applies rule.Expr to content and returns capture group 1, trimmed.
// Returns ENOTFOUND if nothing matches or the group is empty, and EEMPTY if
// the group holds only whitespace.
func (e *Extractor) Extract(content string, rule pagewatch.ExtractionRule) (string, error) {
	if rule.Kind != pagewatch.RulePattern {
		return "", pagewatch.Errorf(pagewatch.EINVALID, "regexp extractor cannot apply %s", rule)
	}

	re, err := Compile(rule.Expr)
	if err != nil {
		return "", err
	}

	m := re.FindStringSubmatch(content)
	if m == nil || m[1] == "" {
		return "", pagewatch.Errorf(pagewatch.ENOTFOUND, "pattern %q captured nothing", rule.Expr)
	}

	v := strings.TrimSpace(m[1])
	if v == "" {
		return "", pagewatch.Errorf(pagewatch.EEMPTY, "pattern %q captured only whitespace", rule.Expr)
	}
	return v, nil
}

// Compile compiles pattern with the extraction flags and checks that it has
// exactly one capture group.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(flags + pattern)
	if err != nil {
		return nil, pagewatch.Errorf(pagewatch.EINVALID, "invalid pattern %q: %v", pattern, err)
	}
	if n := re.NumSubexp(); n != 1 {
		return nil, pagewatch.Errorf(pagewatch.EINVALID, "pattern %q must have exactly one capture group, has %d", pattern, n)
	}
	return re, nil
}
