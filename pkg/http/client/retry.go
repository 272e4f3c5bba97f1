package client

import (
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/samber/lo"
)

// transientNetErrors are dial/connection failures a fresh connection can
// fix: the collaborator pod died, was restarted, or closed the connection
// while it sat in the pool.
var transientNetErrors = []error{
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.ENETUNREACH,
	syscall.EPIPE,
	io.EOF,
	io.ErrUnexpectedEOF,
	net.ErrClosed,
}

func isTransientNetError(err error) bool {
	return lo.SomeBy(transientNetErrors, func(target error) bool {
		return errors.Is(err, target)
	})
}

// redialTransport retries a request on transient connection failures,
// immediately and without backoff: the point is to cycle dead pooled
// connections out, not to wait for the collaborator to recover. When the
// retry budget runs out the whole idle pool is dropped and one final
// attempt goes out on a guaranteed-fresh connection.
type redialTransport struct {
	base       http.RoundTripper
	pool       *http.Transport // for CloseIdleConnections; nil when base is synthetic (tests)
	maxRetries int
}

func (t *redialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempt := 0
	for attempt <= t.maxRetries {
		resp, err := t.send(req, attempt)
		if err == nil {
			return resp, nil
		}

		// Rotated connections are routine aging, not failures
		if errors.Is(err, errConnRotated) {
			continue
		}

		if !isTransientNetError(err) {
			return nil, err
		}
		attempt++
	}

	// Every pooled connection we tried was dead. Drop the pool so the last
	// attempt cannot land on another corpse.
	if t.pool != nil {
		t.pool.CloseIdleConnections()
	}
	return t.send(req, attempt)
}

// send performs one attempt. Retried requests are cloned because the
// original body may be half-consumed from the failed attempt.
func (t *redialTransport) send(req *http.Request, attempt int) (*http.Response, error) {
	if attempt == 0 {
		return t.base.RoundTrip(req)
	}

	retried := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retried.Body = body
	}
	return t.base.RoundTrip(retried)
}
