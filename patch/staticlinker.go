package patch

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/goptxcompiler/jit"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// CompileFunc compiles one PTX module with the given options and returns the cubin and the compiler
// info log. The root package provides one backed by the static nvPTXCompiler library.
type CompileFunc func(ptx string, options []string) (cubin []byte, infoLog string, err error)

// StaticLinker is the jit.Linker installed by the patch: it compiles PTX with a CompileFunc instead
// of using the CUDA toolkit or driver linker.
//
// It can't link more than one PTX module.
type StaticLinker struct {
	compile CompileFunc
}

var _ jit.Linker = (*StaticLinker)(nil)

// NewStaticLinker returns a StaticLinker using compile. It panics if compile is nil.
func NewStaticLinker(compile CompileFunc) *StaticLinker {
	if compile == nil {
		exceptions.Panicf("patch.NewStaticLinker(nil): a CompileFunc is required")
	}
	return &StaticLinker{compile: compile}
}

// LinkCubin implements jit.Linker.
func (l *StaticLinker) LinkCubin(ptx []string, cc jit.ComputeCapability, opts jit.LinkOptions) ([]byte, error) {
	switch {
	case len(ptx) == 0:
		return nil, errors.New("no PTX module to compile")
	case len(ptx) > 1:
		return nil, errors.Errorf("cannot link multiple PTX modules (%d given) with enhanced compatibility", len(ptx))
	}
	options := jit.CompilerOptions(cc, opts)
	cubin, infoLog, err := l.compile(ptx[0], options)
	if err != nil {
		return nil, errors.WithMessagef(err, "static compilation of PTX for %s failed", cc.Arch())
	}
	if infoLog != "" {
		klog.V(2).Infof("patch.StaticLinker info log for %s:\n%s", cc.Arch(), infoLog)
	}
	return cubin, nil
}
