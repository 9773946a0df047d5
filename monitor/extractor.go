package monitor

import "github.com/fwojciec/pagewatch"

// Ensure RuleExtractor implements pagewatch.Extractor at compile time.
var _ pagewatch.Extractor = (*RuleExtractor)(nil)

// RuleExtractor routes each rule to the extractor for its kind.
type RuleExtractor struct {
	Selector pagewatch.Extractor
	Pattern  pagewatch.Extractor
}

// Extract delegates to the extractor matching rule.Kind.
func (e *RuleExtractor) Extract(content string, rule pagewatch.ExtractionRule) (string, error) {
	switch rule.Kind {
	case pagewatch.RuleSelector:
		if e.Selector != nil {
			return e.Selector.Extract(content, rule)
		}
	case pagewatch.RulePattern:
		if e.Pattern != nil {
			return e.Pattern.Extract(content, rule)
		}
	}
	return "", pagewatch.Errorf(pagewatch.ECONFIG, "no extractor for rule %s", rule)
}
