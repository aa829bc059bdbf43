package ptxcompiler

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the failures of the binding.
type ErrorKind int

const (
	// AllocationError means a local (C heap) allocation failed.
	AllocationError ErrorKind = iota + 1

	// QueryError means a version, size or log/program query was rejected by the library.
	QueryError

	// CreateError means nvPTXCompilerCreate rejected the PTX source.
	CreateError

	// CompilationError means nvPTXCompilerCompile didn't succeed.
	CompilationError

	// DestroyError means nvPTXCompilerDestroy reported a failure. Local resources are freed anyway.
	DestroyError

	// OptionError means a compile option can't be passed to C (it contains a NUL byte).
	// No native call is made.
	OptionError
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case AllocationError:
		return "AllocationError"
	case QueryError:
		return "QueryError"
	case CreateError:
		return "CreateError"
	case CompilationError:
		return "CompilationError"
	case DestroyError:
		return "DestroyError"
	case OptionError:
		return "OptionError"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned (wrapped with a stack trace) by every failing operation of the package.
// Use errors.As to retrieve it, or IsKind to check its kind.
type Error struct {
	Kind ErrorKind

	// Op is the name of the failed native function (e.g. "nvPTXCompilerCompile"), or a description of
	// the failed local operation.
	Op string

	// Code returned by the native call. NVPTXCOMPILE_SUCCESS for local failures.
	Code ResultCode

	// Log is the compiler error log, only filled by CompilePTX on compilation failures.
	Log string

	msg string
}

// Error implements the error interface.
// Native failures read "<SYMBOLIC_NAME> error when calling <function>".
func (e *Error) Error() string {
	var msg string
	if e.msg != "" {
		msg = e.msg
	} else {
		msg = fmt.Sprintf("%s error when calling %s", e.Code.Name(), e.Op)
	}
	if e.Log != "" {
		msg = fmt.Sprintf("%s:\n%s", msg, e.Log)
	}
	return msg
}

// newNativeError returns the error for a native call that returned code, already wrapped with a stack.
func newNativeError(kind ErrorKind, op string, code ResultCode) error {
	return errors.WithStack(&Error{Kind: kind, Op: op, Code: code})
}

// newLocalError returns the error for a failure that happened on the Go/C side of the binding.
func newLocalError(kind ErrorKind, op string, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Op: op, msg: fmt.Sprintf(format, args...)})
}

// toError converts a native result code to an error: nil for NVPTXCOMPILE_SUCCESS.
func toError(kind ErrorKind, op string, code ResultCode) error {
	if code == NVPTXCOMPILE_SUCCESS {
		return nil
	}
	return newNativeError(kind, op, code)
}

// IsKind returns whether err (or any error it wraps) is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// ErrDestroyed is returned when a Compiler is used after Destroy.
var ErrDestroyed = errors.New("ptxcompiler.Compiler used after Destroy")
