package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/samber/lo"
)

const (
	// DefaultStatusRetries is the number of retries on retryable statuses.
	DefaultStatusRetries = 3
	// DefaultRetryInitialInterval is the first backoff pause between retries.
	DefaultRetryInitialInterval = 200 * time.Millisecond
)

// ErrUpstreamUnavailable is returned when every attempt ended with a
// retryable status. Callers inside a consumer pipeline treat it as a
// transient failure, the message comes back on the next retry.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// retryableStatusCodes are statuses worth repeating a request for. Anything
// else, including other 4xx, is a final answer from the upstream.
var retryableStatusCodes = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// Caller performs synchronous service-to-service requests with bounded
// retries on transient upstream statuses. Connection-level failures are
// already retried by the transport (see retryTransport), so the Caller only
// looks at status codes.
type Caller struct {
	client          *http.Client
	maxRetries      uint64
	initialInterval time.Duration
}

// CallerOption configures a Caller.
type CallerOption func(*Caller)

// WithStatusRetries overrides the retry budget for retryable statuses.
func WithStatusRetries(n uint64) CallerOption {
	return func(c *Caller) {
		c.maxRetries = n
	}
}

// WithRetryInitialInterval overrides the first backoff pause.
func WithRetryInitialInterval(d time.Duration) CallerOption {
	return func(c *Caller) {
		c.initialInterval = d
	}
}

func NewCaller(client *http.Client, opts ...CallerOption) *Caller {
	c := &Caller{
		client:          client,
		maxRetries:      DefaultStatusRetries,
		initialInterval: DefaultRetryInitialInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes the request, repeating it with exponential backoff while the
// upstream answers with a retryable status. The request context bounds the
// whole exchange including backoff pauses.
func (c *Caller) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	attempt := 0

	operation := func() error {
		reqToSend := req
		if attempt > 0 {
			reqToSend = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return backoff.Permanent(err)
				}
				reqToSend.Body = body
			}
		}
		attempt++

		res, err := c.client.Do(reqToSend)
		if err != nil {
			return backoff.Permanent(err)
		}

		if lo.Contains(retryableStatusCodes, res.StatusCode) {
			// Drain so the connection goes back to the pool
			_, _ = io.Copy(io.Discard, res.Body)
			_ = res.Body.Close()
			return fmt.Errorf("%w: upstream returned %d", ErrUpstreamUnavailable, res.StatusCode)
		}

		resp = res
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialInterval

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), req.Context()))
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}
