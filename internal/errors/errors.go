// Package errors provides structured error types for nrl.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalid
	KindIO
	KindTerminal
	KindPoll
	KindSignal
	KindConfig
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindTerminal:
		return "terminal error"
	case KindPoll:
		return "poll error"
	case KindSignal:
		return "signal error"
	case KindConfig:
		return "configuration error"
	case KindInvariant:
		return "invariant violation"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for nrl.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Poll errors
func PollCreateFailed(err error) error {
	return E(Op("poll.New"), KindPoll, "failed to create epoll instance", err)
}

func PollRegisterFailed(fd int, err error) error {
	return E(Op("poll.Add"), KindPoll, fmt.Sprintf("failed to register fd %d", fd), err)
}

// Signal errors
func WinchSetupFailed(err error) error {
	return E(Op("poll.NewWinch"), KindSignal, "failed to set up resize notification", err)
}

// Terminal errors
func TerminalModeFailed(fd int, err error) error {
	return E(Op("nrl.Prepare"), KindTerminal, fmt.Sprintf("failed to change terminal mode of fd %d", fd), err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Invariant builds the panic payload for a broken internal invariant. These
// indicate a bug in the caller, never a user-facing condition.
func Invariant(op string, format string, args ...interface{}) error {
	return E(Op(op), KindInvariant, fmt.Sprintf(format, args...))
}
