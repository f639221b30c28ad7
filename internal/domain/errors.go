package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// document does not exist or is not visible to the caller.
// Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is the sentinel every ValidationErrors value unwraps to.
// Handlers map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrUnauthenticated is returned when an operation needs a verified username
// and none was supplied. Handlers map this to HTTP 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when strict authorization is enabled and the
// caller is not allowed to touch the document. Handlers map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// FieldError is a single constraint violation on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violation found in one request.
// The first entry is the one surfaced as the response message.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (v ValidationErrors) Unwrap() error { return ErrValidation }

// First returns the message of the first violation, or "" if there is none.
func (v ValidationErrors) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0].Message
}

// add appends a violation.
func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// err returns v as an error, or nil when no violation was recorded.
func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
