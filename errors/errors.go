// Package bsonerr provides a mechanism to create or wrap errors with
// information that will aid in reporting them to callers: a Kind
// classifying the failure and, for corrupt or invalid documents, the byte
// offset within a document's toplevel buffer that the failure pertains to.
package bsonerr

import (
	"bytes"
	"fmt"
	"runtime"
)

// A Kind classifies a family of BSON errors: construction failures,
// corruption found during iteration, semantic validation failures, and so
// on. Callers that need to branch on failure category, rather than just
// log and propagate, switch on Kind instead of matching error strings.
type Kind int

const (
	Other Kind = iota
	// Malformed indicates a document failed construction: a length
	// prefix mismatch or a buffer shorter than the minimum 5 bytes.
	Malformed
	// Corrupt indicates a document was well-formed at construction but
	// an element's encoded length overruns the buffer, its key is
	// unterminated, or its type tag is unrecognized, discovered during
	// iteration.
	Corrupt
	// Validation indicates a structurally sound document failed a
	// semantic check: UTF-8, dollar-prefixed keys, or dotted keys.
	Validation
	// Capacity indicates a requested buffer growth exceeds the maximum
	// representable document size.
	Capacity
	// ReadOnly indicates an append was attempted against a no-grow
	// (static or otherwise read-only) document.
	ReadOnly
	// Precondition indicates an invalid handle or argument, such as
	// appending to a document that is not the innermost open frame.
	Precondition
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Malformed:
		return "malformed document"
	case Corrupt:
		return "corrupt document"
	case Validation:
		return "validation failure"
	case Capacity:
		return "capacity exceeded"
	case ReadOnly:
		return "read-only document"
	case Precondition:
		return "precondition violation"
	}
	return "unknown error kind"
}

// Error is the concrete error type produced by E. Offset is meaningful for
// Corrupt and Validation kinds; it is -1 when not applicable.
type Error struct {
	Kind   Kind
	Offset int
	Err    error
}

func pad(b *bytes.Buffer, s string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(s)
}

func (e *Error) Error() string {
	b := &bytes.Buffer{}
	if e.Kind != Other {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}
	if e.Offset >= 0 {
		pad(b, ": ")
		fmt.Fprintf(b, "at offset %d", e.Offset)
	}
	if e.Err != nil {
		pad(b, ": ")
		b.WriteString(e.Err.Error())
	}
	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns just the wrapped error's text, if present, or the Kind's
// description. It lets callers avoid re-embedding the Kind description that
// Error() already includes.
func (e *Error) Message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// E builds an error from any mix of a Kind, an offset (int), an existing
// error, or a format string with args (which, like fmt.Errorf, must come
// last, and supports %w). At least one argument is required.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("no args to bsonerr.E")
	}
	e := &Error{Offset: -1}

	for i, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case int:
			e.Offset = arg
		case error:
			e.Err = arg
		case string:
			e.Err = fmt.Errorf(arg, args[i+1:]...)
			return e
		default:
			_, file, line, _ := runtime.Caller(1)
			return fmt.Errorf("unknown type %T value %v in bsonerr.E call at %v:%v", arg, arg, file, line)
		}
	}

	return e
}
