package parser

import (
	"errors"
	"fmt"
)

// Kind classifies load failures.
type Kind int

const (
	KindIO Kind = iota + 1
	KindEncoding
	KindFormat
	KindValue
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindEncoding:
		return "encoding"
	case KindFormat:
		return "format"
	case KindValue:
		return "value"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against an *Error of the same Kind.
var (
	ErrIO        = errors.New("i/o error")
	ErrEncoding  = errors.New("invalid encoding")
	ErrFormat    = errors.New("invalid format")
	ErrValue     = errors.New("invalid value")
	ErrCancelled = errors.New("load cancelled")
)

// ErrBusy is returned when a load is started on a Parser that is already
// loading.
var ErrBusy = errors.New("parser: load already in progress")

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindEncoding:
		return ErrEncoding
	case KindFormat:
		return ErrFormat
	case KindValue:
		return ErrValue
	case KindCancelled:
		return ErrCancelled
	default:
		return nil
	}
}

// Error is the error type returned by every load operation.
type Error struct {
	Kind Kind
	// Line is the 1-based line number, or 0 when the source could not be
	// opened at all.
	Line int
	// Offset is the byte offset of the first invalid byte (KindEncoding only).
	Offset int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind.sentinel(), msg)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind.sentinel(), msg)
}

func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
