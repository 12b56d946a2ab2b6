// Package service holds the catalog and session use cases.  Services return
// *Error values whose Kind is one of the sentinel errors below; handlers map
// kinds to HTTP status codes with errors.Is and show Message to the client.
package service

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Error is a client-facing failure.  Message is safe to return verbatim.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}
