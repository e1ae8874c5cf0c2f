package dnfjson

import "fmt"

// Kind tags the category of a solver failure. Values are the wire-visible
// strings emitted in the response error object, not Go type names.
type Kind string

const (
	// KindInvalidRequest marks a schema or argument-presence failure caught
	// before any filesystem or network access.
	KindInvalidRequest Kind = "InvalidRequest"
	// KindError is a generic configuration failure, e.g. an unset cache dir.
	KindError Kind = "Error"
	// KindMarkingErrors marks one or more package specs that could not be
	// marked for install.
	KindMarkingErrors Kind = "MarkingErrors"
	// KindDepsolveError marks infeasible dependency resolution.
	KindDepsolveError Kind = "DepsolveError"
	// KindRepoError marks a repository metadata I/O failure.
	KindRepoError Kind = "RepoError"
	// KindGPGKeyReadError marks a failure resolving or fetching a gpgkey.
	KindGPGKeyReadError Kind = "GPGKeyReadError"
)

// Error is the tagged error variant that crosses the solver boundary. It is
// propagated by value: every internal failure is classified into a Kind
// before it leaves the package that produced it, so callers up the stack
// never need to type-switch on library-internal error types.
type Error struct {
	Kind   Kind
	Reason string

	// Err is the underlying cause, kept for %w unwrapping and debugging.
	// It is never serialized onto the wire.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a tagged Error with the given kind and a formatted reason.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// WrapError classifies err under kind, preserving it as the unwrap target.
// kind is applied even when err is already a *Error. An empty reason falls
// back to err.Error().
func WrapError(kind Kind, err error, reason string) *Error {
	if err == nil {
		return nil
	}
	if reason == "" {
		reason = err.Error()
	}
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// AsError reports whether err is (or wraps) a *Error, returning it if so.
func AsError(err error) (*Error, bool) {
	var e *Error
	if err == nil {
		return nil, false
	}
	if se, ok := err.(*Error); ok {
		return se, true
	}
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return AsError(u.Unwrap())
	}
	return e, false
}
