package ptxcompiler

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestResultCodeName(t *testing.T) {
	require.Equal(t, "NVPTXCOMPILE_SUCCESS", NVPTXCOMPILE_SUCCESS.Name())
	require.Equal(t, "NVPTXCOMPILE_ERROR_COMPILATION_FAILURE", NVPTXCOMPILE_ERROR_COMPILATION_FAILURE.Name())
	require.Equal(t, "NVPTXCOMPILE_ERROR_UNSUPPORTED_PTX_VERSION", ResultCode(7).Name())
	require.Equal(t, "<unknown>", ResultCode(8).Name())
	require.Equal(t, "<unknown>", ResultCode(-1).Name())
	require.Len(t, ResultCodeValues(), 8)
}

func TestErrorMessage(t *testing.T) {
	require.NoError(t, toError(CompilationError, "nvPTXCompilerCompile", NVPTXCOMPILE_SUCCESS))

	err := toError(CompilationError, "nvPTXCompilerCompile", NVPTXCOMPILE_ERROR_COMPILATION_FAILURE)
	require.Error(t, err)
	require.Equal(t, "NVPTXCOMPILE_ERROR_COMPILATION_FAILURE error when calling nvPTXCompilerCompile", err.Error())
	require.True(t, IsKind(err, CompilationError))
	require.False(t, IsKind(err, QueryError))

	err = toError(QueryError, "nvPTXCompilerGetInfoLogSize", ResultCode(42))
	require.Equal(t, "<unknown> error when calling nvPTXCompilerGetInfoLogSize", err.Error())

	// Still reachable through extra wrapping.
	wrapped := errors.WithMessage(err, "fetching info log")
	require.True(t, IsKind(wrapped, QueryError))
	var ptxErr *Error
	require.True(t, errors.As(wrapped, &ptxErr))
	require.Equal(t, ResultCode(42), ptxErr.Code)
	require.Equal(t, "nvPTXCompilerGetInfoLogSize", ptxErr.Op)

	require.False(t, IsKind(fmt.Errorf("other"), QueryError))
	require.False(t, IsKind(nil, QueryError))
}

func TestErrorWithLog(t *testing.T) {
	e := &Error{Kind: CompilationError, Op: "nvPTXCompilerCompile", Code: NVPTXCOMPILE_ERROR_COMPILATION_FAILURE,
		Log: "ptxas fatal   : Unknown option '--bad-option'"}
	require.Contains(t, e.Error(), "NVPTXCOMPILE_ERROR_COMPILATION_FAILURE error when calling nvPTXCompilerCompile")
	require.Contains(t, e.Error(), "Unknown option")
	require.Equal(t, "CompilationError", e.Kind.String())
	require.Equal(t, "ErrorKind(99)", ErrorKind(99).String())
}
