package patch

import (
	"strconv"
	"strings"

	"github.com/gomlx/goptxcompiler/version"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Switch is a boolean read from the environment. Integers are accepted ("0" is false, any other
// integer is true), as well as the values accepted by strconv.ParseBool.
//
// A malformed value is false, with a warning: it never fails the parsing of the other variables.
type Switch bool

// SetValue implements cleanenv.Setter.
func (s *Switch) SetValue(value string) error {
	value = strings.TrimSpace(value)
	if i, err := strconv.Atoi(value); err == nil {
		*s = i != 0
		return nil
	}
	if b, err := strconv.ParseBool(value); err == nil {
		*s = Switch(b)
		return nil
	}
	klog.Warningf("patch: invalid boolean value %q in environment, using false", value)
	*s = false
	return nil
}

// Config of the Controller, read from the environment by ReadConfig.
type Config struct {
	KnownDriverVersion  string `env:"PTXCOMPILER_KNOWN_DRIVER_VERSION" env-description:"CUDA driver version (major.minor) to use when the probe is disabled"`
	KnownRuntimeVersion string `env:"PTXCOMPILER_KNOWN_RUNTIME_VERSION" env-description:"CUDA runtime version (major.minor) to use when the probe is disabled"`
	ProbeBinary         string `env:"PTXCOMPILER_PROBE_BINARY" env-description:"Path to the ptxcompiler_probe program. Defaults to the one next to the executable, then $PATH"`

	CheckPatchNeeded Switch `env:"PTXCOMPILER_CHECK_CODEGEN_PATCH_NEEDED" env-default:"true" env-description:"Run the child process that queries the driver and runtime versions"`
	ApplyPatch       Switch `env:"PTXCOMPILER_APPLY_CODEGEN_PATCH" env-default:"false" env-description:"Apply the patch unconditionally, without probing"`
}

// ReadConfig reads the Config from the environment.
//
// Each switch is parsed on its own: a malformed value only turns off its own switch.
func ReadConfig() Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		klog.Warningf("patch: failed to read configuration from environment: %v", err)
	}
	klog.V(1).Infof("patch: config %+v", cfg)
	return cfg
}

// KnownVersions parses KnownDriverVersion and KnownRuntimeVersion.
func (cfg Config) KnownVersions() (driver, runtime version.Pair, err error) {
	if cfg.KnownDriverVersion == "" || cfg.KnownRuntimeVersion == "" {
		err = errors.New("PTXCOMPILER_KNOWN_DRIVER_VERSION and PTXCOMPILER_KNOWN_RUNTIME_VERSION must both be set")
		return
	}
	if driver, err = version.Parse(cfg.KnownDriverVersion); err != nil {
		err = errors.WithMessage(err, "invalid PTXCOMPILER_KNOWN_DRIVER_VERSION")
		return
	}
	if runtime, err = version.Parse(cfg.KnownRuntimeVersion); err != nil {
		err = errors.WithMessage(err, "invalid PTXCOMPILER_KNOWN_RUNTIME_VERSION")
		return
	}
	return
}

// ConfigHelp returns a description of the environment variables read by ReadConfig.
func ConfigHelp() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}
