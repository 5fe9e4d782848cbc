package infrastructure

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yourusername/podgrab-go/internal/domain"
)

// HTTPTransfer implements domain.Transferer over net/http
type HTTPTransfer struct {
	client    *http.Client
	userAgent string
}

// NewHTTPTransfer creates a transfer client. A zero timeout leaves streamed
// bodies unbounded; cancellation goes through the request context.
func NewHTTPTransfer(config *domain.HTTPConfig) *HTTPTransfer {
	return &HTTPTransfer{
		client:    &http.Client{Timeout: config.Timeout},
		userAgent: config.UserAgent,
	}
}

// StreamGet performs a GET and hands back the unread body
func (t *HTTPTransfer) StreamGet(ctx context.Context, url string, headers http.Header) (*domain.TransferResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if req.Header.Get("User-Agent") == "" && t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}

	total := resp.ContentLength
	if total < 0 {
		total = domain.UnknownSize
	}

	return &domain.TransferResponse{
		StatusCode: resp.StatusCode,
		TotalSize:  total,
		Body:       resp.Body,
	}, nil
}
