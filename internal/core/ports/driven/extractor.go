package driven

import "context"

// Extractor converts a web page into plain readable text.
type Extractor interface {
	// Extract fetches url and returns its main text content.
	Extract(ctx context.Context, url string) (string, error)
}
