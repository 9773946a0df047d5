package mock

import "github.com/fwojciec/pagewatch"

var _ pagewatch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagewatch.Extractor.
type Extractor struct {
	ExtractFn func(content string, rule pagewatch.ExtractionRule) (string, error)
}

func (e *Extractor) Extract(content string, rule pagewatch.ExtractionRule) (string, error) {
	return e.ExtractFn(content, rule)
}
