package rpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	transportMaxRetries     = 5
	transportInitialBackoff = 250 * time.Millisecond
	transportMaxBackoff     = 10 * time.Second
)

// retryTransport retries failed HTTP exchanges below the JSON-RPC layer.
// It is the native-environment counterpart of the explicit backoff policy:
// the client above it issues every call exactly once.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries uint64
	initial    time.Duration
	cap        time.Duration
}

func newRetryTransport(base http.RoundTripper) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryTransport{
		base:       base,
		maxRetries: transportMaxRetries,
		initial:    transportInitialBackoff,
		cap:        transportMaxBackoff,
	}
}

// RoundTrip buffers the request body once so it can be replayed, then
// retries network errors, 429s and 5xx responses with capped exponential
// backoff. Other responses pass through untouched.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("buffer request body: %w", err)
		}
	}

	b := retry.WithMaxRetries(t.maxRetries,
		retry.WithCappedDuration(t.cap, retry.NewExponential(t.initial)))

	var resp *http.Response
	err := retry.Do(req.Context(), b, func(ctx context.Context) error {
		attempt := req.Clone(ctx)
		if body != nil {
			attempt.Body = io.NopCloser(bytes.NewReader(body))
			attempt.ContentLength = int64(len(body))
		}

		r, err := t.base.RoundTrip(attempt)
		if err != nil {
			return retry.RetryableError(err)
		}

		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
			io.Copy(io.Discard, r.Body)
			r.Body.Close()
			return retry.RetryableError(fmt.Errorf("http %d from %s", r.StatusCode, attempt.URL.Host))
		}

		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
