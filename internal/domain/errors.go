package domain

import (
	"errors"
	"fmt"
	"strings"
)

// --- Error Definitions ---
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrRemoteRejected     = errors.New("remote service rejected the request")
	ErrRemoteUnreachable  = errors.New("remote service unreachable")
	ErrMalformedResponse  = errors.New("malformed response from remote service")
	ErrStorageCorrupt     = errors.New("stored data is corrupt")
)

// ValidationError reports a missing or out-of-range field, detected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// RemoteError is a classified failure of one exchange with the remote service.
// Kind is one of ErrRemoteRejected, ErrRemoteUnreachable or ErrMalformedResponse.
type RemoteError struct {
	Op      string
	Kind    error
	Status  int
	Message string // Server supplied reason, if any
	Err     error  // Underlying transport or decode error, if any
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
