// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dxd

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies the error conditions the core can surface (spec §7).
type Kind int

const (
	// CapacityExceeded is returned when a hard cap is reached: too many
	// variables (2^20-1), or too many node indices (2^42-1).
	CapacityExceeded Kind = iota
	// VariableUnknown is returned when an operation references a
	// variable that was never allocated.
	VariableUnknown
	// FlavourMismatch is returned when a ZDD operation receives a BDD arc
	// (complement bit set) or vice versa.
	FlavourMismatch
	// SerializationError is returned when an externally-serialised blob
	// is malformed or truncated.
	SerializationError
	// InvariantViolation marks a detectable internal inconsistency. It is
	// fatal and non-recoverable: callers should not attempt to continue
	// using the engine after seeing one.
	InvariantViolation
)

func (k Kind) String() string {
	switch k {
	case CapacityExceeded:
		return "capacity exceeded"
	case VariableUnknown:
		return "variable unknown"
	case FlavourMismatch:
		return "flavour mismatch"
	case SerializationError:
		return "serialization error"
	case InvariantViolation:
		return "invariant violation"
	default:
		return "unknown error"
	}
}

// Error is the structured error value returned by the core, carrying a
// Kind and the message or wrapped cause that produced it. The
// invariantViolation helper attaches a github.com/pkg/errors stack trace,
// but the engine's InvariantViolation errors are built with newError and
// carry none; newError values are plain and cheap to construct, matching
// the teacher's errors.go style (fmt.Errorf on an engine-level sticky
// error) generalised into a typed taxonomy.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, msg: fmt.Sprintf(format, args...)}
}

// invariantViolation builds a fatal, stack-carrying InvariantViolation.
func invariantViolation(format string, args ...interface{}) *Error {
	return &Error{
		Kind: InvariantViolation,
		msg:  fmt.Sprintf(format, args...),
		cause: pkgerrors.WithStack(fmt.Errorf("internal inconsistency")),
	}
}

// wrapSerialization builds a SerializationError wrapping cause with a
// message, using pkg/errors so the original decoding failure (e.g. an
// io.ErrUnexpectedEOF from a truncated blob) is preserved and inspectable.
func wrapSerialization(cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:  SerializationError,
		msg:   fmt.Sprintf(format, args...),
		cause: pkgerrors.Wrap(cause, "serialization"),
	}
}

// seterror records err as the engine's sticky error, in the style of the
// teacher's errors.go (BDD.seterror): the most recent error is surfaced by
// Error()/Errored(), and each new error overwrites the previous one.
func (e *Engine) seterror(err *Error) *Error {
	e.logger.Debugw("engine error", "kind", err.Kind.String(), "msg", err.msg)
	e.err = err
	return err
}

// Error returns the empty string if there is no pending error, or the
// message of the last one recorded.
func (e *Engine) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

// Errored reports whether the engine has a pending sticky error.
func (e *Engine) Errored() bool {
	return e.err != nil
}
