// Package errs implements the compositor's error taxonomy: a closed set of
// kinds with an idiomatic Go rendition (a single type implementing error,
// with Kind/Is/As support) rather than one type per kind.
package errs

import (
	"errors"
	"fmt"
)

// Kind enumerates the taxonomy described in spec §7. Each is a distinct
// error kind, never overlapping in meaning with another.
type Kind uint8

const (
	// General is an unrecoverable condition with a textual description.
	General Kind = iota
	// InvalidArgument is a precondition violation in a public call.
	InvalidArgument
	// Permission is a session/device-acquisition refusal.
	Permission
	// IO is an underlying file / socket / mmap failure.
	IO
	// Protocol is a malformed client request or attributes.
	Protocol
	// Unknown wraps a foreign error as a last resort.
	Unknown
)

func (k Kind) String() string {
	switch k {
	case General:
		return "general"
	case InvalidArgument:
		return "invalid-argument"
	case Permission:
		return "permission"
	case IO:
		return "io"
	case Protocol:
		return "protocol"
	case Unknown:
		return "unknown"
	default:
		return "unknown-kind"
	}
}

// Error is the concrete error type carried by every fallible operation in
// the compositor core.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "coordinator.Commit"
	Msg  string
	Err  error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so
// errors.Is(err, errs.New("", errs.InvalidArgument, "")) matches any
// invalid-argument error. Op and Msg are not compared.
func (e *Error) Is(target error) bool {
	var o *Error
	if !errors.As(target, &o) {
		return false
	}
	return e.Kind == o.Kind
}

// New builds an *Error with no wrapped cause.
func New(op string, kind Kind, msg string) *Error {
	return &Error{Op: op, Kind: kind, Msg: msg}
}

// Newf builds an *Error with a formatted message.
func Newf(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches op/kind context to an existing error.
func Wrap(op string, kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf extracts the Kind of err, returning Unknown if err is nil or not
// one of ours.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
