// Package dberr classifies storage and domain errors so callers can map
// them onto HTTP statuses without string matching.
package dberr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	NotFound          Kind = "not_found"
	Mismatch          Kind = "mismatch"
	PastDeadline      Kind = "past_deadline"
	CreateFailed      Kind = "create_failed"
	ReadFailed        Kind = "read_failed"
	UpdateFailed      Kind = "update_failed"
	DeleteFailed      Kind = "delete_failed"
	TransactionFailed Kind = "transaction_failed"
)

type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Msg, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Msg, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf returns the Kind of err if it carries one, or TransactionFailed
// as the unspecific fallback.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return TransactionFailed
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
