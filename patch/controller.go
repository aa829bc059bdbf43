package patch

import (
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/goptxcompiler/jit"
	"k8s.io/klog/v2"
)

// Controller decides whether the patch is needed and installs it.
//
// The decision is made once, on the first call to Decide (or ApplyIfNeeded), and the environment is read
// at that time. It is safe for concurrent use.
type Controller struct {
	compile CompileFunc
	probe   ProbeRunner
	config  *Config

	decideOnce sync.Once
	decision   Decision
}

// muApply serializes installations, since different controllers may patch the same Target.
var muApply sync.Mutex

// NewController returns a Controller whose patch compiles with compile. It panics if compile is nil.
//
// By default, configuration is read from the environment (ReadConfig) and the probe is an ExecProbe.
func NewController(compile CompileFunc) *Controller {
	if compile == nil {
		exceptions.Panicf("patch.NewController(nil): a CompileFunc is required")
	}
	return &Controller{compile: compile}
}

// WithProbe sets the ProbeRunner used to query the versions. It must be called before Decide.
func (c *Controller) WithProbe(probe ProbeRunner) *Controller {
	c.probe = probe
	return c
}

// WithConfig sets the configuration, instead of reading it from the environment. It must be called before Decide.
func (c *Controller) WithConfig(cfg Config) *Controller {
	c.config = &cfg
	return c
}

// Decide returns whether the patch is needed. It is computed only once per Controller.
//
//  1. If the patch is forced (PTXCOMPILER_APPLY_CODEGEN_PATCH), it is Needed, and no probe is run.
//  2. If the probe is disabled (PTXCOMPILER_CHECK_CODEGEN_PATCH_NEEDED), the known versions from the environment
//     are compared, or it is Indeterminate if they are not set.
//  3. Otherwise the probe is run, and it is Indeterminate if it fails or reports no GPU.
func (c *Controller) Decide() Decision {
	c.decideOnce.Do(func() {
		c.decision = c.decide()
		klog.V(1).Infof("patch: decision is %s", c.decision)
	})
	return c.decision
}

func (c *Controller) decide() Decision {
	var cfg Config
	if c.config != nil {
		cfg = *c.config
	} else {
		cfg = ReadConfig()
	}
	if cfg.ApplyPatch {
		klog.V(1).Infof("patch: forced by PTXCOMPILER_APPLY_CODEGEN_PATCH")
		return Needed
	}

	if !cfg.CheckPatchNeeded {
		driver, runtime, err := cfg.KnownVersions()
		if err != nil {
			klog.Warningf("patch: no way to determine driver and runtime versions for patching "+
				"(the probe is disabled), set PTXCOMPILER_KNOWN_DRIVER_VERSION/PTXCOMPILER_KNOWN_RUNTIME_VERSION: %v", err)
			return Indeterminate
		}
		return DecideFromVersions(driver, runtime)
	}

	probe := c.probe
	if probe == nil {
		probe = &ExecProbe{Path: cfg.ProbeBinary}
	}
	result, err := probe.Probe()
	if err != nil {
		klog.Errorf("patch: %+v\n\nNot patching", err)
		return Indeterminate
	}
	klog.V(1).Infof("patch: probe reported driver=%s runtime=%s has_gpu=%v", result.Driver, result.Runtime, result.HasGPU)
	if !result.HasGPU {
		klog.Warningf("patch: no NVIDIA GPU found, not patching")
		return Indeterminate
	}
	return DecideFromVersions(result.Driver, result.Runtime)
}

// ApplyIfNeeded installs the patch in target if Decide returns Needed.
// It returns whether the patch is installed in target when it returns.
//
// The compatibility of target is checked first, and a *CompatibilityError is returned if it can't be patched,
// whatever the decision.
func (c *Controller) ApplyIfNeeded(target Target) (bool, error) {
	if err := CheckCompatibility(target); err != nil {
		return false, err
	}
	if c.Decide() != Needed {
		klog.V(1).Infof("patch: not patching %q codegen", target.Name())
		return false, nil
	}
	c.install(target)
	return true, nil
}

// Apply installs the patch in target unconditionally.
// It returns a *CompatibilityError if target can't be patched.
func (c *Controller) Apply(target Target) error {
	if err := CheckCompatibility(target); err != nil {
		return err
	}
	c.install(target)
	return nil
}

// install replaces the linker of target with a StaticLinker, unless one is already installed.
func (c *Controller) install(target Target) {
	muApply.Lock()
	defer muApply.Unlock()
	current, _ := target.Hook(jit.LinkerHook)
	if _, ok := current.(*StaticLinker); ok {
		klog.V(1).Infof("patch: %q codegen already patched", target.Name())
		applied.Store(true)
		return
	}
	klog.V(1).Infof("patch: patching %q codegen for enhanced compatibility", target.Name())
	target.SetHook(jit.LinkerHook, NewStaticLinker(c.compile))
	applied.Store(true)
}
