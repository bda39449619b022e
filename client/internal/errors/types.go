// Package errors provides the error taxonomy of the ShapeShift client SDK.
// Service-level failures reported inside a JSON body are not errors here:
// they are returned to the caller as data.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a client failure.
type Kind int

const (
	// InvalidParameter is a client-side validation failure. No request was sent.
	InvalidParameter Kind = iota + 1

	// Transport covers network failures: timeouts, refused connections,
	// DNS errors and cancelled contexts.
	Transport

	// Decode means the response body was not valid JSON.
	Decode
)

// String returns a human-readable representation of the error kind.
func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "InvalidParameter"
	case Transport:
		return "TransportError"
	case Decode:
		return "DecodeError"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against any *Error of the same Kind.
var (
	ErrInvalidParameter = &Error{Kind: InvalidParameter}
	ErrTransport        = &Error{Kind: Transport}
	ErrDecode           = &Error{Kind: Decode}
)

// Error is the single error type returned by the SDK.
type Error struct {
	Kind       Kind
	Op         string // operation name, e.g. "rate" or "shift"
	Timeout    bool   // set for Transport errors caused by a deadline
	StatusCode int    // HTTP status of the offending response (Decode only)
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Timeout {
		msg += " (timeout)"
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" HTTP %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewInvalidParameter reports a rejected argument for op.
func NewInvalidParameter(op, format string, args ...any) *Error {
	return &Error{Kind: InvalidParameter, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of err, or 0 when err did not come from the SDK.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsTimeout reports whether err is a Transport error caused by a deadline.
func IsTimeout(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Kind == Transport && e.Timeout
}
