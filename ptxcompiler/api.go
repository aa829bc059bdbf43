package ptxcompiler

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Result of a successful CompilePTX.
type Result struct {
	// CompiledProgram is the cubin ELF image.
	CompiledProgram []byte

	// InfoLog is the compiler informational log, often empty.
	InfoLog string
}

// CompilePTX compiles the PTX source with the given options in a single call: it creates a Compiler,
// compiles, fetches the outputs and always destroys the Compiler.
//
// On compilation failure the returned *Error (kind CompilationError) carries the compiler error log in
// its Log field.
func CompilePTX(ptx string, options []string) (result *Result, err error) {
	c, err := NewFromString(ptx)
	if err != nil {
		return nil, err
	}
	defer func() {
		destroyErr := c.Destroy()
		if destroyErr == nil {
			return
		}
		if err == nil {
			result, err = nil, destroyErr
		} else {
			klog.Warningf("ptxcompiler.CompilePTX: failed to destroy compiler after error: %v", destroyErr)
		}
	}()

	if err = c.Compile(options...); err != nil {
		var ptxErr *Error
		if errors.As(err, &ptxErr) && ptxErr.Kind == CompilationError {
			log, logErr := c.ErrorLog()
			if logErr != nil {
				klog.Warningf("ptxcompiler.CompilePTX: failed to read the error log: %v", logErr)
			}
			ptxErr.Log = log
		}
		return nil, err
	}

	result = &Result{}
	if result.CompiledProgram, err = c.CompiledProgram(); err != nil {
		return nil, err
	}
	if result.InfoLog, err = c.InfoLog(); err != nil {
		return nil, err
	}
	return result, nil
}
