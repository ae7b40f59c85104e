// errors.go - error classification for ATS API calls
package atsclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
)

// APIError is a definite server response indicating failure: the request
// reached the server and was rejected. These are never retried.
type APIError struct {
	Status int    `json:"-"`
	Detail string `json:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("ats: server returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("ats: %s (HTTP %d)", e.Detail, e.Status)
}

// IsRetriable reports whether an upload error is a transport-level failure
// where no HTTP response was received at all (connection abort, network
// failure, timeout). Server responses of any status are terminal, and so is
// caller-driven cancellation.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}

	// A cancelled context is the caller giving up, not the network failing.
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return false
}
