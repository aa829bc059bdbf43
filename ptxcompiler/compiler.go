package ptxcompiler

/*
#include <nvPTXCompiler.h>
*/
import "C"
import (
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/gomlx/goptxcompiler/cbuffer"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Compiler is one PTX compilation session: it owns a native compiler handle and the copy of the PTX
// source the handle was created with.
//
// Create it with New or NewFromString, call Compile once, then read the outputs (ErrorLog, InfoLog,
// CompiledProgram) and finally call Destroy.
// If it is garbage collected without Destroy, it is destroyed automatically and an error is logged.
//
// A Compiler is not safe for concurrent use. Different Compiler objects are independent.
type Compiler struct {
	wrapper *compilerWrapper
}

// compilerWrapper wraps the C data that requires clean up.
type compilerWrapper struct {
	handle *C.nvPTXCompilerHandle
	source *cbuffer.CBuffer
}

var compilersAlive atomic.Int64

// CompilersAlive returns the number of Compiler objects created and not yet destroyed.
func CompilersAlive() int64 {
	return compilersAlive.Load()
}

func (wrapper *compilerWrapper) IsValid() bool {
	return wrapper != nil && wrapper.handle != nil
}

// Destroy calls nvPTXCompilerDestroy and frees the local storage, even if the native call fails.
func (wrapper *compilerWrapper) Destroy() error {
	if !wrapper.IsValid() {
		// Already destroyed, no-op.
		return nil
	}
	defer runtime.KeepAlive(wrapper)
	code := ResultCode(C.nvPTXCompilerDestroy(wrapper.handle))
	cFree(wrapper.handle)
	wrapper.handle = nil
	wrapper.source.Free()
	wrapper.source = nil
	compilersAlive.Add(-1)
	return toError(DestroyError, "nvPTXCompilerDestroy", code)
}

// New creates a compilation session for the given PTX source.
//
// The source is copied and its length is passed explicitly, so it doesn't need to be NUL terminated.
// It returns an error of kind AllocationError if the C storage can't be allocated, or CreateError
// if the library rejects the input.
func New(ptx []byte) (*Compiler, error) {
	handle := cMalloc[C.nvPTXCompilerHandle]()
	if handle == nil {
		return nil, newLocalError(AllocationError, "nvPTXCompilerHandle", "failed to allocate storage for the compiler handle")
	}
	source := cbuffer.NewFromBytes(ptx)
	if source == nil {
		cFree(handle)
		return nil, newLocalError(AllocationError, "PTX source", "failed to allocate %d bytes for the PTX source", len(ptx)+1)
	}
	code := ResultCode(C.nvPTXCompilerCreate(handle, C.size_t(len(ptx)), (*C.char)(source.Data())))
	if err := toError(CreateError, "nvPTXCompilerCreate", code); err != nil {
		if *handle != nil {
			// Outcome ignored: the creation error is the one reported.
			_ = C.nvPTXCompilerDestroy(handle)
		}
		cFree(handle)
		source.Free()
		return nil, err
	}

	c := &Compiler{wrapper: &compilerWrapper{handle: handle, source: source}}
	compilersAlive.Add(1)
	runtime.AddCleanup(c, func(wrapper *compilerWrapper) {
		if !wrapper.IsValid() {
			return
		}
		klog.Errorf("ptxcompiler.Compiler garbage collected without being destroyed")
		if err := wrapper.Destroy(); err != nil {
			klog.Errorf("ptxcompiler.Compiler.Destroy failed: %+v", err)
		}
	}, c.wrapper)
	return c, nil
}

// NewFromString is like New, but takes the PTX source as a string.
func NewFromString(ptx string) (*Compiler, error) {
	return New([]byte(ptx))
}

// Destroy the compilation session and release its resources. The Compiler can no longer be used.
//
// It is idempotent: calling it again is a no-op. If the library reports a failure it returns an error of
// kind DestroyError, but local resources are freed anyway.
func (c *Compiler) Destroy() error {
	if c == nil {
		return nil
	}
	return c.wrapper.Destroy()
}

// Compile the PTX source with the given options, passed verbatim to nvPTXCompilerCompile
// (e.g. "--gpu-name=sm_75").
//
// If it fails (kind CompilationError), the details can be read with ErrorLog.
// Calling Compile more than once on the same Compiler is left to the library.
func (c *Compiler) Compile(options ...string) error {
	if !c.wrapper.IsValid() {
		return errors.WithStack(ErrDestroyed)
	}
	for ii, opt := range options {
		if strings.IndexByte(opt, 0) >= 0 {
			return newLocalError(OptionError, "nvPTXCompilerCompile",
				"compile option #%d (%q) contains a NUL byte and can't be passed as a C string", ii, opt)
		}
	}
	defer runtime.KeepAlive(c)

	cOptions, freeOptions := cStrings(options)
	defer freeOptions()
	cArray := cMallocArrayAndSet[*C.char](len(cOptions), func(i int) *C.char { return cOptions[i] })
	if cArray == nil {
		return newLocalError(AllocationError, "nvPTXCompilerCompile", "failed to allocate the array of %d options", len(options))
	}
	defer cFree(cArray)

	klog.V(2).Infof("nvPTXCompilerCompile(%q)", options)
	code := ResultCode(C.nvPTXCompilerCompile(*c.wrapper.handle, C.int(len(options)), cArray))
	return toError(CompilationError, "nvPTXCompilerCompile", code)
}

// ErrorLog returns the error log of the last compilation.
// The library only provides it after Compile was called: before that it returns a QueryError.
func (c *Compiler) ErrorLog() (string, error) {
	return c.fetchLog("nvPTXCompilerGetErrorLogSize", "nvPTXCompilerGetErrorLog",
		func(size *C.size_t) C.nvPTXCompileResult {
			return C.nvPTXCompilerGetErrorLogSize(*c.wrapper.handle, size)
		},
		func(buf *C.char) C.nvPTXCompileResult {
			return C.nvPTXCompilerGetErrorLog(*c.wrapper.handle, buf)
		})
}

// InfoLog returns the informational log of the last compilation, often empty.
// The library only provides it after Compile was called: before that it returns a QueryError.
func (c *Compiler) InfoLog() (string, error) {
	return c.fetchLog("nvPTXCompilerGetInfoLogSize", "nvPTXCompilerGetInfoLog",
		func(size *C.size_t) C.nvPTXCompileResult {
			return C.nvPTXCompilerGetInfoLogSize(*c.wrapper.handle, size)
		},
		func(buf *C.char) C.nvPTXCompileResult {
			return C.nvPTXCompilerGetInfoLog(*c.wrapper.handle, buf)
		})
}

// fetchLog queries the size of a log, fetches it into a buffer with room for the terminating NUL and
// returns exactly size bytes.
func (c *Compiler) fetchLog(sizeOp, fetchOp string,
	sizeFn func(size *C.size_t) C.nvPTXCompileResult, fetchFn func(buf *C.char) C.nvPTXCompileResult) (string, error) {
	if !c.wrapper.IsValid() {
		return "", errors.WithStack(ErrDestroyed)
	}
	defer runtime.KeepAlive(c)

	var size C.size_t
	if err := toError(QueryError, sizeOp, ResultCode(sizeFn(&size))); err != nil {
		return "", err
	}
	buf := cbuffer.NewSized(int(size) + 1)
	if buf == nil {
		return "", newLocalError(AllocationError, fetchOp, "failed to allocate %d bytes for the log", int(size)+1)
	}
	defer buf.Free()
	if err := toError(QueryError, fetchOp, ResultCode(fetchFn((*C.char)(buf.Data())))); err != nil {
		return "", err
	}
	return string(buf.CopyBytes(int(size))), nil
}

// CompiledProgram returns a copy of the compiled program (a cubin ELF image).
//
// It is fetched from the library on every call. Before a successful Compile it returns a QueryError.
func (c *Compiler) CompiledProgram() ([]byte, error) {
	if !c.wrapper.IsValid() {
		return nil, errors.WithStack(ErrDestroyed)
	}
	defer runtime.KeepAlive(c)

	size, err := c.compiledProgramSize()
	if err != nil {
		return nil, err
	}
	buf := cbuffer.NewSized(size)
	if buf == nil {
		return nil, newLocalError(AllocationError, "nvPTXCompilerGetCompiledProgram", "failed to allocate %d bytes for the compiled program", size)
	}
	defer buf.Free()
	code := ResultCode(C.nvPTXCompilerGetCompiledProgram(*c.wrapper.handle, buf.Data()))
	if err := toError(QueryError, "nvPTXCompilerGetCompiledProgram", code); err != nil {
		return nil, err
	}
	return buf.CopyBytes(size), nil
}

// compiledProgramSize returns the size reported by nvPTXCompilerGetCompiledProgramSize.
// The caller must have checked that the compiler is valid.
func (c *Compiler) compiledProgramSize() (int, error) {
	defer runtime.KeepAlive(c)
	var size C.size_t
	code := ResultCode(C.nvPTXCompilerGetCompiledProgramSize(*c.wrapper.handle, &size))
	if err := toError(QueryError, "nvPTXCompilerGetCompiledProgramSize", code); err != nil {
		return 0, err
	}
	return int(size), nil
}
