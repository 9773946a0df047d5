package pagewatch

import "context"

// Fetcher retrieves page content from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the page body. Failures are returned as EFETCH errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (content string, err error)

	// Close releases resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
