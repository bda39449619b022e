package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
)

// NewTransportError wraps a failure of the HTTP round trip. Deadline
// failures, from either the context or the http.Client timeout, are flagged.
func NewTransportError(op string, err error) *Error {
	return &Error{
		Kind:    Transport,
		Op:      op,
		Timeout: isTimeout(err),
		Err:     err,
	}
}

// NewDecodeError reports a response body that is not valid JSON.
func NewDecodeError(op string, statusCode int, err error) *Error {
	return &Error{
		Kind:       Decode,
		Op:         op,
		StatusCode: statusCode,
		Err:        fmt.Errorf("response is not valid JSON: %w", err),
	}
}

// NewBodyTooLargeError reports a response body over the read limit.
func NewBodyTooLargeError(op string, statusCode int, limit int64) *Error {
	return &Error{
		Kind:       Decode,
		Op:         op,
		StatusCode: statusCode,
		Err:        fmt.Errorf("response body exceeds %d bytes", limit),
	}
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrors.As(err, &ne) && ne.Timeout()
}
