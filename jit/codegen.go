package jit

import (
	"sort"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/goptxcompiler/version"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// LinkerHook is the name of the Codegen slot holding the Linker. Its value must implement Linker.
const LinkerHook = "linker"

// Codegen holds the named extension slots ("hooks") of the code generator.
//
// Slots can be replaced at any time, also while other goroutines are using the Codegen:
// users resolve the slot on every use.
type Codegen struct {
	name string

	mu    sync.RWMutex
	hooks map[string]any
}

// NewCodegen returns a Codegen with the default ToolchainLinker installed in the LinkerHook slot.
func NewCodegen(name string) *Codegen {
	c := &Codegen{name: name, hooks: make(map[string]any)}
	c.hooks[LinkerHook] = &ToolchainLinker{}
	return c
}

// Name of the code generator.
func (c *Codegen) Name() string {
	return c.name
}

// Version returns the version of the extension API, APIVersion.
func (c *Codegen) Version() version.Pair {
	return APIVersion
}

// Hook returns the value in the named slot, and whether the slot exists.
func (c *Codegen) Hook(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, found := c.hooks[name]
	return value, found
}

// SetHook installs value in the named slot, replacing any previous value.
//
// It panics if value is nil.
func (c *Codegen) SetHook(name string, value any) {
	if value == nil {
		exceptions.Panicf("jit.Codegen(%q).SetHook(%q, nil): hooks can't be nil", c.name, name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	klog.V(1).Infof("jit.Codegen(%q): setting hook %q to %T", c.name, name, value)
	c.hooks[name] = value
}

// Hooks returns the names of the slots, sorted.
func (c *Codegen) Hooks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.hooks))
	for name := range c.hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Linker returns the Linker currently installed.
func (c *Codegen) Linker() (Linker, error) {
	value, found := c.Hook(LinkerHook)
	if !found {
		return nil, errors.Errorf("jit.Codegen(%q) has no %q hook", c.name, LinkerHook)
	}
	linker, ok := value.(Linker)
	if !ok {
		return nil, errors.Errorf("jit.Codegen(%q) hook %q holds a %T, which is not a jit.Linker", c.name, LinkerHook, value)
	}
	return linker, nil
}

// SetLinker installs linker in the LinkerHook slot.
func (c *Codegen) SetLinker(linker Linker) {
	if linker == nil {
		exceptions.Panicf("jit.Codegen(%q).SetLinker(nil): linker can't be nil", c.name)
	}
	c.SetHook(LinkerHook, linker)
}
