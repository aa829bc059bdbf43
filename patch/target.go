package patch

import (
	"fmt"

	"github.com/gomlx/goptxcompiler/jit"
	"github.com/gomlx/goptxcompiler/version"
)

// Target is the code generator being patched. It is implemented by *jit.Codegen.
type Target interface {
	Name() string
	Version() version.Pair
	Hook(name string) (any, bool)
	SetHook(name string, value any)
}

var _ Target = (*jit.Codegen)(nil)

// Range of Target versions whose jit.LinkerHook slot is known to be compatible.
var (
	MinTargetVersion = version.Pair{Major: 1, Minor: 0}
	MaxTargetVersion = version.Pair{Major: 1, Minor: 0}
)

// CompatibilityError is returned when the Target can't be patched: its version is not supported, or its
// linker slot is missing or doesn't hold a jit.Linker.
type CompatibilityError struct {
	Target string
	Reason string
}

// Error implements the error interface.
func (e *CompatibilityError) Error() string {
	return fmt.Sprintf("cannot patch %q: %s", e.Target, e.Reason)
}

// CheckCompatibility returns a *CompatibilityError if target can't be patched.
func CheckCompatibility(target Target) error {
	v := target.Version()
	if v.Less(MinTargetVersion) {
		return &CompatibilityError{Target: target.Name(),
			Reason: fmt.Sprintf("version %s is insufficient for patching, at least %s is needed", v, MinTargetVersion)}
	}
	if MaxTargetVersion.Less(v) {
		return &CompatibilityError{Target: target.Name(),
			Reason: fmt.Sprintf("version %s is newer than the latest supported version %s", v, MaxTargetVersion)}
	}
	hook, found := target.Hook(jit.LinkerHook)
	if !found {
		return &CompatibilityError{Target: target.Name(), Reason: fmt.Sprintf("it has no %q hook", jit.LinkerHook)}
	}
	if _, ok := hook.(jit.Linker); !ok {
		return &CompatibilityError{Target: target.Name(),
			Reason: fmt.Sprintf("its %q hook holds a %T, not a jit.Linker", jit.LinkerHook, hook)}
	}
	return nil
}
