// Package patch decides whether the JIT code generator needs to be redirected to the static PTX compiler,
// and installs the redirection.
//
// When the CUDA runtime is newer than the CUDA version supported by the installed driver ("enhanced" or
// "minor version" compatibility), the driver can't link PTX produced for the newer runtime. Compiling the
// PTX with the static nvPTXCompiler library, which ships with the runtime, works around it.
//
// The driver and runtime versions are queried in a child process (see ExecProbe), since loading them has
// side effects on the calling process. The behavior can be overridden with environment variables, see Config.
//
// Typical usage, at program start:
//
//	codegen := jit.NewCodegen("myjit")
//	ctrl := patch.NewController(compileFn)
//	if _, err := ctrl.ApplyIfNeeded(codegen); err != nil {
//		klog.Fatalf("%+v", err)
//	}
package patch

import (
	"fmt"
	"sync/atomic"

	"github.com/gomlx/goptxcompiler/version"
)

// Decision on whether the patch is needed.
type Decision int

const (
	// Indeterminate means the versions could not be determined: the patch is not applied.
	Indeterminate Decision = iota

	// NotNeeded means the driver supports the runtime version.
	NotNeeded

	// Needed means the runtime is newer than the driver, or the patch was forced.
	Needed
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	switch d {
	case Indeterminate:
		return "indeterminate"
	case NotNeeded:
		return "not-needed"
	case Needed:
		return "needed"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// DecideFromVersions returns Needed if runtime > driver, NotNeeded otherwise.
func DecideFromVersions(driver, runtime version.Pair) Decision {
	if driver.Less(runtime) {
		return Needed
	}
	return NotNeeded
}

var applied atomic.Bool

// Applied returns whether the patch was installed in some target during the lifetime of the process.
// Once set it is never reset.
func Applied() bool {
	return applied.Load()
}
