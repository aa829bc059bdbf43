// Package goptxcompiler wires the static PTX compiler binding (package ptxcompiler) into the
// version-gated patch of the JIT code generator (package patch), and collects metrics about both.
//
// Most programs only need:
//
//	codegen := jit.NewCodegen("myjit")
//	if _, err := goptxcompiler.PatchCodegenIfNeeded(codegen); err != nil {
//		klog.Fatalf("%+v", err)
//	}
//
// See patch.Config for the environment variables that control the decision.
package goptxcompiler

import (
	"sync"
	"time"

	"github.com/gomlx/goptxcompiler/jit"
	"github.com/gomlx/goptxcompiler/patch"
	"github.com/gomlx/goptxcompiler/ptxcompiler"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// CompilePTX compiles the PTX source with the static nvPTXCompiler library, and records the metrics.
// It can be used as a patch.CompileFunc.
func CompilePTX(ptx string, options []string) (cubin []byte, infoLog string, err error) {
	start := time.Now()
	result, err := ptxcompiler.CompilePTX(ptx, options)
	compileDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		compilations.WithLabelValues(compileStatus(err)).Inc()
		return nil, "", err
	}
	compilations.WithLabelValues("success").Inc()
	compiledBytes.Add(float64(len(result.CompiledProgram)))
	return result.CompiledProgram, result.InfoLog, nil
}

// compileStatus returns the metrics label for a compilation error.
func compileStatus(err error) string {
	var ptxErr *ptxcompiler.Error
	if errors.As(err, &ptxErr) {
		return ptxErr.Kind.String()
	}
	return "error"
}

var _ patch.CompileFunc = CompilePTX

var (
	defaultController     *patch.Controller
	muDefaultController   sync.Mutex
	recordDefaultDecision sync.Once
)

// DefaultController returns the process-wide patch.Controller using CompilePTX. Its decision is made once,
// reading the environment on first use.
func DefaultController() *patch.Controller {
	muDefaultController.Lock()
	defer muDefaultController.Unlock()
	if defaultController == nil {
		defaultController = patch.NewController(CompilePTX)
	}
	return defaultController
}

// PatchCodegenIfNeeded redirects the code generation of codegen to the static PTX compiler if the installed
// CUDA driver is older than the CUDA runtime, or if forced by the environment.
//
// It returns whether the patch is installed. It returns a *patch.CompatibilityError if codegen can't be patched.
func PatchCodegenIfNeeded(codegen *jit.Codegen) (bool, error) {
	ctrl := DefaultController()
	patched, err := ctrl.ApplyIfNeeded(codegen)
	if err != nil {
		return false, err
	}
	recordDefaultDecision.Do(func() {
		patchDecisions.WithLabelValues(ctrl.Decide().String()).Inc()
	})
	if patched {
		patchApplied.Set(1)
		klog.V(1).Infof("%q codegen is using the static PTX compiler", codegen.Name())
	}
	return patched, nil
}
