package xhttp

import (
	"fmt"
	"net/http"

	"stravanotion/internal/version"
)

type syncTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*syncTransport)(nil)

func (t *syncTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "stravanotion/"+version.Get())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper that stamps outgoing requests
// with the sync job's user agent.
func NewTransport() http.RoundTripper {
	return &syncTransport{base: http.DefaultTransport}
}
