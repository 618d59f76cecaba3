// Package apperr is the client-side error taxonomy. Every failure that
// reaches a view is an *Error whose Kind is one of the sentinels below.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrAuthRequired = errors.New("auth required")
	ErrAuthExpired  = errors.New("auth expired or invalid")
	ErrValidation   = errors.New("validation")
	ErrRejected     = errors.New("server rejected")
	ErrUnavailable  = errors.New("network or unknown")
)

const MsgAuthRequired = "You must be logged in to continue."

type Error struct {
	Kind    error
	Message string
	// Fields holds per-field messages for validation failures.
	Fields map[string]string
	// Status is the HTTP status when the error came from a response.
	Status int
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func AuthRequired() *Error {
	return &Error{Kind: ErrAuthRequired, Message: MsgAuthRequired}
}

func AuthExpired(status int) *Error {
	return &Error{Kind: ErrAuthExpired, Status: status}
}

func Rejected(status int, msg string) *Error {
	return &Error{Kind: ErrRejected, Status: status, Message: msg}
}

func Unavailable(err error) *Error {
	return &Error{Kind: ErrUnavailable, Err: err}
}

// Validation builds a validation error from field messages. The summary
// message is the first field message in key order.
func Validation(fields map[string]string) *Error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var msg string
	if len(keys) > 0 {
		msg = fields[keys[0]]
	}
	return &Error{Kind: ErrValidation, Message: msg, Fields: fields}
}

// IsAuth reports whether err must end the session.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// UserMessage is the text a view shows for err. Server and validation
// messages are surfaced verbatim; anything without a message falls back.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return fallback
	}
	switch e.Kind {
	case ErrUnavailable:
		return fallback
	case ErrAuthExpired:
		if e.Message == "" {
			return "Your session has expired. Please log in again."
		}
	}
	if e.Message == "" {
		return fallback
	}
	return e.Message
}
