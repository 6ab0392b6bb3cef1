// Package apperr defines the error taxonomy shared by the session, lifecycle
// and HTTP layers.  Handlers translate an *Error into a response according to
// its Kind; everything else is treated as an unexpected failure.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	// KindAuth covers bad credentials and expired or rejected tokens.  It
	// always tears down the session.
	KindAuth Kind = "auth"
	// KindValidation is a local precondition or form-field violation.  It
	// never reaches the network.
	KindValidation Kind = "validation"
	// KindInvalidTransition means the backend refused a state change because
	// the client's view of the booking was stale.
	KindInvalidTransition Kind = "invalid_transition"
	// KindPayment covers payment creation and processing failures.
	KindPayment Kind = "payment"
	// KindNetwork is a transport failure or timeout with no usable response.
	KindNetwork Kind = "network"
	// KindBusy is returned when the same action is already in flight.
	KindBusy Kind = "busy"
	// KindNotFound is returned when a booking or room is not in the
	// caller's view.
	KindNotFound Kind = "not_found"
)

// Error is the concrete error type for every Kind.
type Error struct {
	Kind    Kind
	Message string
	// Fields maps form field names to inline messages (validation only).
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Auth(message string, err error) *Error       { return New(KindAuth, message, err) }
func Payment(message string, err error) *Error    { return New(KindPayment, message, err) }
func Network(message string, err error) *Error    { return New(KindNetwork, message, err) }
func Busy(message string) *Error                  { return New(KindBusy, message, nil) }
func NotFound(message string) *Error              { return New(KindNotFound, message, nil) }
func Transition(message string, err error) *Error { return New(KindInvalidTransition, message, err) }

// Validation builds a validation error.  fields may be nil when the violation
// is not tied to a single input.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
