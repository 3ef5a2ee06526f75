// Package errs defines the error kinds every layer of Tripmate speaks.
//
// Storage failures surface verbatim to the service layer, and the service
// layer propagates them (wrapped, never swallowed) to the transport, which
// maps each kind to a status code. Anything that is none of these kinds is
// an internal error.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced entity is absent. For assignment
	// status updates it deliberately also covers "exists but belongs to
	// someone else" so that unauthorized principals learn nothing.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated means a credential was presented but failed
	// verification (tampered or expired token). The client must
	// re-authenticate.
	ErrUnauthenticated = errors.New("invalid or expired credentials")

	// ErrForbidden means a guarded operation was called with no credential
	// at all.
	ErrForbidden = errors.New("authentication required")
)

// ValidationError reports bad or duplicate input. It is never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
