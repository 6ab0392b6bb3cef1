package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx, non-401 backend answer.  Message is the
// backend's "message" or "error" field when it sent one.
type StatusError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway: %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("gateway: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsClientError reports a 4xx rejection, which for a state change means
// the caller's view of the resource was stale.
func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// AsStatus extracts a *StatusError from err's chain.
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsNotFound reports a 404 answer.
func IsNotFound(err error) bool {
	se, ok := AsStatus(err)
	return ok && se.StatusCode == http.StatusNotFound
}
