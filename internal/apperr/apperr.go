// Package apperr carries the error taxonomy the data layer reports through.
//
// Stores and resolvers return these instead of raw pgx/redis errors so the
// boundary layer can map a failure to a status code without knowing which
// engine produced it. Wrapping still uses the standard library: an apperr
// wraps the underlying cause, and errors.Is/errors.As keep working through it.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	// KindInternal is an unexpected fault in our own code.
	KindInternal Kind = iota
	// KindValidation means the caller must fix the request; retrying as-is
	// cannot succeed.
	KindValidation
	// KindUnauthenticated means no tenant identity could be resolved.
	KindUnauthenticated
	// KindNotFound means no row matched the id+owner scope. An ownership
	// mismatch is deliberately indistinguishable from nonexistence so that
	// probing ids across tenants leaks nothing.
	KindNotFound
	// KindStore means the persistence engine reported a failure. The
	// engine's message is kept for diagnosis but treated as opaque.
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	default:
		return "internal"
	}
}

// Error is a failure with a machine-distinguishable kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports a request the caller must fix.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Unauthenticated reports a missing or unresolvable tenant identity.
func Unauthenticated(msg string) error {
	return &Error{Kind: KindUnauthenticated, Msg: msg}
}

// NotFound reports that no row matched the id+owner scope.
func NotFound(entity string) error {
	return &Error{Kind: KindNotFound, Msg: entity + " not found"}
}

// Store wraps a persistence engine failure.
func Store(msg string, err error) error {
	return &Error{Kind: KindStore, Msg: msg, Err: err}
}

// Internal wraps an unexpected fault.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, or KindInternal for anything that isn't
// an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err carries KindNotFound.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// IsValidation reports whether err carries KindValidation.
func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }

// HTTPStatus maps an error to the status class the boundary layer responds
// with. Transports that don't speak HTTP map these to equivalent codes.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
