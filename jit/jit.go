// Package jit is the code-generation stage of a GPU JIT: it turns PTX modules into a cubin for a given
// compute capability.
//
// The stage that does the actual linking is looked up by name in the Codegen extension slots, so it can be
// replaced at runtime. See LinkerHook and the patch package.
package jit

import (
	"fmt"
	"strconv"

	"github.com/gomlx/goptxcompiler/version"
)

// APIVersion is the version of the Codegen extension API. It is changed whenever a slot is added, removed or
// changes its type.
var APIVersion = version.Pair{Major: 1, Minor: 0}

// ComputeCapability of an NVIDIA GPU, e.g. {7, 5} for Turing.
type ComputeCapability struct {
	Major, Minor int
}

// Arch returns the architecture name used by the CUDA tools, e.g. "sm_75".
func (cc ComputeCapability) Arch() string {
	return fmt.Sprintf("sm_%d%d", cc.Major, cc.Minor)
}

// String implements fmt.Stringer.
func (cc ComputeCapability) String() string {
	return fmt.Sprintf("%d.%d", cc.Major, cc.Minor)
}

// FromVersion converts a (major, minor) pair, as reported by the driver, to a ComputeCapability.
func FromVersion(p version.Pair) ComputeCapability {
	return ComputeCapability{Major: p.Major, Minor: p.Minor}
}

// LinkOptions configure the generation of the cubin.
type LinkOptions struct {
	// MaxRegisters per thread. 0 means no limit.
	MaxRegisters int

	// Debug generates device debug information.
	Debug bool

	// LineInfo generates line-number information.
	LineInfo bool
}

// CompilerOptions returns the ptxas style options for the given compute capability and LinkOptions.
// They are accepted both by the ptxas tool and by the nvPTXCompiler library.
func CompilerOptions(cc ComputeCapability, opts LinkOptions) []string {
	options := []string{"--gpu-name=" + cc.Arch()}
	if opts.MaxRegisters > 0 {
		options = append(options, "--maxrregcount="+strconv.Itoa(opts.MaxRegisters))
	}
	if opts.Debug {
		options = append(options, "--device-debug")
	}
	if opts.LineInfo {
		options = append(options, "--generate-line-info")
	}
	return options
}

// Linker turns PTX modules into a cubin for the given compute capability.
type Linker interface {
	LinkCubin(ptx []string, cc ComputeCapability, opts LinkOptions) ([]byte, error)
}

// LinkerFunc adapts a function to the Linker interface.
type LinkerFunc func(ptx []string, cc ComputeCapability, opts LinkOptions) ([]byte, error)

// LinkCubin implements Linker.
func (fn LinkerFunc) LinkCubin(ptx []string, cc ComputeCapability, opts LinkOptions) ([]byte, error) {
	return fn(ptx, cc, opts)
}
