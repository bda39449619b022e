package client

import (
	"errors"

	sserrors "github.com/mycelian/shapeshift/client/internal/errors"
)

// Error is the concrete type of every error returned by the SDK.
type Error = sserrors.Error

// Sentinels for errors.Is; they match any SDK error of the same kind.
var (
	ErrInvalidParameter = sserrors.ErrInvalidParameter
	ErrTransport        = sserrors.ErrTransport
	ErrDecode           = sserrors.ErrDecode
)

// IsInvalidParameter reports whether err is a client-side validation failure.
func IsInvalidParameter(err error) bool { return errors.Is(err, ErrInvalidParameter) }

// IsTransport reports whether err is a network failure.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }

// IsDecode reports whether the service answered with something other than JSON.
func IsDecode(err error) bool { return errors.Is(err, ErrDecode) }

// IsTimeout reports whether err is a network failure caused by a deadline.
func IsTimeout(err error) bool { return sserrors.IsTimeout(err) }
