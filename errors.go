package nativeio

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by this package.
type Kind int

const (
	// KindIO means a syscall failed; the OS error is wrapped.
	KindIO Kind = iota + 1
	// KindOutOfMemory means a mapping could not be established, typically
	// because the address space (or the configured mapped-bytes budget) is exhausted.
	KindOutOfMemory
	// KindInvalidArgument means an offset, length or advice code was rejected
	// before reaching the OS.
	KindInvalidArgument
	// KindInvalidHandle means the handle or mapping was closed or never opened.
	KindInvalidHandle
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindOutOfMemory:
		return "out of memory"
	case KindInvalidArgument:
		return "invalid argument"
	case KindInvalidHandle:
		return "invalid handle"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrIO              = errors.New("nativeio: io error")
	ErrOutOfMemory     = errors.New("nativeio: out of memory")
	ErrInvalidArgument = errors.New("nativeio: invalid argument")
	ErrInvalidHandle   = errors.New("nativeio: invalid handle")
)

// Error describes a failed operation.
//
// The wrapped error (if any) can be accessed via errors.Unwrap; for KindIO
// and KindOutOfMemory it is the errno reported by the OS.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	msg := "nativeio: " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg + ": " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrOutOfMemory:
		return e.Kind == KindOutOfMemory
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrInvalidHandle:
		return e.Kind == KindInvalidHandle
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func ioError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Kind: KindIO, Err: err}
}

func oomError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Kind: KindOutOfMemory, Err: err}
}

func invalidArgument(op, path, format string, args ...any) error {
	return &Error{Op: op, Path: path, Kind: KindInvalidArgument, Err: fmt.Errorf(format, args...)}
}

func invalidHandle(op, path string) error {
	return &Error{Op: op, Path: path, Kind: KindInvalidHandle}
}
