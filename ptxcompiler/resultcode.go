package ptxcompiler

// ResultCode defined on a separate file, so it will work with enumer -- it doesn't work with files using cgo.

// ResultCode mirrors nvPTXCompileResult, returned by every nvPTXCompiler API call.
type ResultCode int

//go:generate go tool enumer -type=ResultCode resultcode.go

// Values copied from nvPTXCompiler.h.
const (
	NVPTXCOMPILE_SUCCESS                              ResultCode = 0
	NVPTXCOMPILE_ERROR_INVALID_COMPILER_HANDLE        ResultCode = 1
	NVPTXCOMPILE_ERROR_INVALID_INPUT                  ResultCode = 2
	NVPTXCOMPILE_ERROR_COMPILATION_FAILURE            ResultCode = 3
	NVPTXCOMPILE_ERROR_INTERNAL                       ResultCode = 4
	NVPTXCOMPILE_ERROR_OUT_OF_MEMORY                  ResultCode = 5
	NVPTXCOMPILE_ERROR_COMPILER_INVOCATION_INCOMPLETE ResultCode = 6
	NVPTXCOMPILE_ERROR_UNSUPPORTED_PTX_VERSION        ResultCode = 7
)

// Name returns the symbolic name of the result code as spelled in nvPTXCompiler.h, or "<unknown>"
// for values this package doesn't know about (e.g. codes added by newer versions of the library).
func (i ResultCode) Name() string {
	if !i.IsAResultCode() {
		return "<unknown>"
	}
	return i.String()
}
