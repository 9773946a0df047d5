package pagewatch

import "regexp"

// RuleKind identifies how an ExtractionRule locates the watched value.
type RuleKind string

// RuleKind constants.
const (
	RuleSelector RuleKind = "selector"
	RulePattern  RuleKind = "pattern"
)

// ExtractionRule describes how to pull one value out of fetched content.
// Exactly one kind is set per rule.
type ExtractionRule struct {
	Kind RuleKind `json:"kind"`
	Expr string   `json:"expr"`
}

// SelectorRule returns a rule that takes the text of the first element
// matching a CSS selector.
func SelectorRule(selector string) ExtractionRule {
	return ExtractionRule{Kind: RuleSelector, Expr: selector}
}

// PatternRule returns a rule that takes capture group 1 of a regular expression.
func PatternRule(pattern string) ExtractionRule {
	return ExtractionRule{Kind: RulePattern, Expr: pattern}
}

// Validate returns an error if the rule cannot be applied.
// Pattern rules must compile and declare exactly one capture group.
func (r ExtractionRule) Validate() error {
	switch r.Kind {
	case RuleSelector:
		if r.Expr == "" {
			return Errorf(EINVALID, "selector required")
		}
	case RulePattern:
		if r.Expr == "" {
			return Errorf(EINVALID, "pattern required")
		}
		re, err := regexp.Compile(r.Expr)
		if err != nil {
			return Errorf(EINVALID, "invalid pattern %q: %v", r.Expr, err)
		}
		if n := re.NumSubexp(); n != 1 {
			return Errorf(EINVALID, "pattern %q must have exactly one capture group, has %d", r.Expr, n)
		}
	case "":
		return Errorf(EINVALID, "selector or pattern required")
	default:
		return Errorf(EINVALID, "unknown extraction rule kind %q", r.Kind)
	}
	return nil
}

// String returns a human-readable form of the rule, e.g. selector("#month").
func (r ExtractionRule) String() string {
	return string(r.Kind) + "(" + r.Expr + ")"
}

// Extractor pulls a single value out of page content.
//
// Implementations return ENOTFOUND when nothing matches the rule and EEMPTY
// when a match yields no text. Extract must be deterministic: identical
// content and rule always produce identical output.
type Extractor interface {
	Extract(content string, rule ExtractionRule) (string, error)
}
