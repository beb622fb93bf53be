package httputil

import (
	"context"
	"errors"
	"fmt"
)

// ErrTimeout is returned when no response arrives within the fetch bound.
var ErrTimeout = errors.New("request timed out")

// HTTPError reports a non-success HTTP status.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// NetworkError reports a transport-level failure (DNS, connection reset, TLS...).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Outcome classifies a fetch error into a short label for logs and metrics.
func Outcome(err error) string {
	var httpErr *HTTPError
	var netErr *NetworkError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.As(err, &httpErr):
		return "http"
	case errors.As(err, &netErr):
		return "network"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "other"
	}
}
