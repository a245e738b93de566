// Package celecterr classifies query failures into the kinds the
// driver surfaces to callers: Parse, Plan, Io, Schema, Cancelled.
package celecterr

import (
	"errors"
	"fmt"
)

// Kind tags the stage that rejected the query.
type Kind string

const (
	Parse     Kind = "parse"
	Plan      Kind = "plan"
	Io        Kind = "io"
	Schema    Kind = "schema"
	Cancelled Kind = "cancelled"
)

// Error wraps an underlying cause with a Kind so callers can branch on
// errors.As without string-matching messages.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Of reports the Kind of err if it (or something it wraps) is a *Error.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
