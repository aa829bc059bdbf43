// Package ptxcompiler is a thin Go binding to NVIDIA's static PTX compiler library (nvPTXCompiler).
//
// It handles parameter marshalling, the lifecycle of the compiler handle and the translation of
// the library's result codes to Go errors. The compilation itself is entirely done by the library.
//
// The library is linked statically from libnvptxcompiler_static.a, which is part of the CUDA toolkit.
// If the toolkit is not installed under /usr/local/cuda, set CGO_CFLAGS and CGO_LDFLAGS accordingly.
//
// Typical usage:
//
//	c, err := ptxcompiler.NewFromString(ptx)
//	if err != nil { ... }
//	defer func() { _ = c.Destroy() }()
//	if err := c.Compile("--gpu-name=sm_75"); err != nil {
//		log, _ := c.ErrorLog()
//		...
//	}
//	cubin, err := c.CompiledProgram()
//
// Or simply use CompilePTX.
package ptxcompiler

/*
#cgo CFLAGS: -I/usr/local/cuda/include
#cgo LDFLAGS: -L/usr/local/cuda/lib64 -lnvptxcompiler_static -lm -lpthread
#include <nvPTXCompiler.h>
*/
import "C"

import (
	"github.com/gomlx/goptxcompiler/version"
)

// GetVersion returns the version of the nvPTXCompiler library linked in.
func GetVersion() (version.Pair, error) {
	var major, minor C.uint
	code := ResultCode(C.nvPTXCompilerGetVersion(&major, &minor))
	if err := toError(QueryError, "nvPTXCompilerGetVersion", code); err != nil {
		return version.Pair{}, err
	}
	return version.Pair{Major: int(major), Minor: int(minor)}, nil
}
