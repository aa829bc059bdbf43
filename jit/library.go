package jit

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Library is a collection of PTX modules linked together into a cubin.
//
// The cubin is generated on demand for each compute capability and cached. It is safe for concurrent use.
type Library struct {
	name    string
	codegen *Codegen

	mu     sync.Mutex
	ptx    []string
	opts   LinkOptions
	cubins map[ComputeCapability][]byte
}

// NewLibrary creates an empty Library that links with this Codegen's LinkerHook slot.
func (c *Codegen) NewLibrary(name string) *Library {
	return &Library{
		name:    name,
		codegen: c,
		cubins:  make(map[ComputeCapability][]byte),
	}
}

// Name of the library.
func (l *Library) Name() string {
	return l.name
}

// AddPTX adds a PTX module to the library. Previously generated cubins are discarded.
func (l *Library) AddPTX(ptx string) *Library {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ptx = append(l.ptx, ptx)
	clear(l.cubins)
	return l
}

// MaxRegisters sets the maximum number of registers per thread. Previously generated cubins are discarded.
func (l *Library) MaxRegisters(n int) *Library {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opts.MaxRegisters = n
	clear(l.cubins)
	return l
}

// Debug configures generation of device debug information. Previously generated cubins are discarded.
func (l *Library) Debug(debug bool) *Library {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opts.Debug = debug
	clear(l.cubins)
	return l
}

// LineInfo configures generation of line-number information. Previously generated cubins are discarded.
func (l *Library) LineInfo(lineInfo bool) *Library {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opts.LineInfo = lineInfo
	clear(l.cubins)
	return l
}

// NumModules returns the number of PTX modules added.
func (l *Library) NumModules() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ptx)
}

// Cubin returns the linked cubin for the compute capability, generating it with the Linker
// currently installed in the Codegen if it is not cached yet.
func (l *Library) Cubin(cc ComputeCapability) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cubin, found := l.cubins[cc]; found {
		return cubin, nil
	}
	if len(l.ptx) == 0 {
		return nil, errors.Errorf("jit.Library(%q) has no PTX modules", l.name)
	}
	linker, err := l.codegen.Linker()
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("jit.Library(%q): linking %d PTX module(s) for %s with %T", l.name, len(l.ptx), cc.Arch(), linker)
	cubin, err := linker.LinkCubin(l.ptx, cc, l.opts)
	if err != nil {
		return nil, errors.WithMessagef(err, "jit.Library(%q): failed to link for %s", l.name, cc.Arch())
	}
	l.cubins[cc] = cubin
	return cubin, nil
}
