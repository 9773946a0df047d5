// Package goquery extracts watched values from HTML using CSS selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/pagewatch"
)

// Ensure Extractor implements pagewatch.Extractor at compile time.
var _ pagewatch.Extractor = (*Extractor)(nil)

// Extractor takes the text of the first element matching a selector rule.
type Extractor struct{}

// NewExtractor creates a new selector Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses content as HTML and returns the whitespace-normalized text
// of the first element matching rule.Expr.
// Returns ENOTFOUND if nothing matches and EEMPTY if the match has no text.
func (e *Extractor) Extract(content string, rule pagewatch.ExtractionRule) (string, error) {
	if rule.Kind != pagewatch.RuleSelector {
		return "", pagewatch.Errorf(pagewatch.EINVALID, "goquery extractor cannot apply %s", rule)
	}

	sel, err := cascadia.Compile(rule.Expr)
	if err != nil {
		return "", pagewatch.Errorf(pagewatch.EINVALID, "invalid selector %q: %v", rule.Expr, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", pagewatch.Errorf(pagewatch.EINVALID, "failed to parse HTML: %v", err)
	}

	node := doc.FindMatcher(sel).First()
	if node.Length() == 0 {
		return "", pagewatch.Errorf(pagewatch.ENOTFOUND, "selector %q matched no element", rule.Expr)
	}

	text := NormalizeText(node.Text())
	if text == "" {
		return "", pagewatch.Errorf(pagewatch.EEMPTY, "selector %q matched an element with no text", rule.Expr)
	}
	return text, nil
}

// ValidateSelector returns an EINVALID error if selector does not compile.
func ValidateSelector(selector string) error {
	if _, err := cascadia.Compile(selector); err != nil {
		return pagewatch.Errorf(pagewatch.EINVALID, "invalid selector %q: %v", selector, err)
	}
	return nil
}

// NormalizeText trims s and collapses internal whitespace runs to one space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
