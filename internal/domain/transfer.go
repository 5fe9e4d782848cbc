package domain

import (
	"context"
	"io"
	"net/http"
)

// UnknownSize is reported as total when the server does not announce a length
const UnknownSize int64 = -1

// ProgressFunc observes transfer progress of one entry.
// total is UnknownSize when the server did not report a content length.
type ProgressFunc func(received, total int64, label string)

// TransferResponse is the result of a streamed GET
type TransferResponse struct {
	StatusCode int
	TotalSize  int64
	Body       io.ReadCloser
}

// Transferer performs streamed GET requests
type Transferer interface {
	// StreamGet issues a GET and returns the unread body; the caller closes it
	StreamGet(ctx context.Context, url string, headers http.Header) (*TransferResponse, error)
}

// FeedSource turns a feed URL into an ordered list of entries
type FeedSource interface {
	// Fetch retrieves and parses a feed. Failures are *FeedFetchError.
	Fetch(ctx context.Context, feedURL string) (*Feed, error)

	// Invalidate forgets any cached copy of a feed
	Invalidate(feedURL string)
}

// Notifier receives run-level notifications
type Notifier interface {
	NotifyRunCompleted(summary *RunSummary)
}
