package patch

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gomlx/goptxcompiler/version"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"k8s.io/klog/v2"
)

// ProbeBinaryName is the name of the probe program, see cmd/ptxcompiler_probe.
const ProbeBinaryName = "ptxcompiler_probe"

// ProbeResult is what the probe reports.
type ProbeResult struct {
	Driver, Runtime version.Pair
	HasGPU          bool
}

// ProbeRunner queries the driver and runtime versions in isolation from the calling process.
type ProbeRunner interface {
	Probe() (ProbeResult, error)
}

// ProbeFunc adapts a function to the ProbeRunner interface.
type ProbeFunc func() (ProbeResult, error)

// Probe implements ProbeRunner.
func (fn ProbeFunc) Probe() (ProbeResult, error) {
	return fn()
}

// ExecProbe runs the probe program as a child process and parses its output.
//
// It blocks until the child exits: there is no timeout. On linux the child is killed if the calling
// thread dies.
type ExecProbe struct {
	// Path to the probe program. If empty, ProbeBinaryName is searched next to the running executable,
	// and then in $PATH.
	Path string

	// Args passed to the program.
	Args []string

	// Env is appended to the current environment of the child.
	Env []string
}

// resolvePath returns the path to the probe program.
func (p *ExecProbe) resolvePath() (string, error) {
	if p.Path != "" {
		return p.Path, nil
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), ProbeBinaryName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	probePath, err := exec.LookPath(ProbeBinaryName)
	if err != nil {
		return "", errors.Wrapf(err, "can't find %s next to the executable or in $PATH, set PTXCOMPILER_PROBE_BINARY", ProbeBinaryName)
	}
	return probePath, nil
}

// Probe implements ProbeRunner.
func (p *ExecProbe) Probe() (ProbeResult, error) {
	probePath, err := p.resolvePath()
	if err != nil {
		return ProbeResult{}, err
	}
	cmd := exec.Command(probePath, p.Args...)
	if len(p.Env) > 0 {
		cmd.Env = append(os.Environ(), p.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProbeSysProcAttr(cmd)
	klog.V(1).Infof("patch: running probe %s %q", probePath, p.Args)
	if err := cmd.Run(); err != nil {
		return ProbeResult{}, errors.Wrapf(err, "error getting driver and runtime versions from %s:\n\nstdout:\n\n%s\n\nstderr:\n\n%s",
			probePath, stdout.String(), stderr.String())
	}
	result, err := DecodeProbeResult(stdout.Bytes())
	if err != nil {
		return ProbeResult{}, errors.WithMessagef(err, "failed to parse output of %s (stderr:\n%s)", probePath, stderr.String())
	}
	klog.V(1).Infof("patch: CUDA driver version %s, CUDA runtime version %s", result.Driver, result.Runtime)
	return result, nil
}

// Fields of the encoded ProbeResult.
const (
	fieldDriverMajor  = "driver_major"
	fieldDriverMinor  = "driver_minor"
	fieldRuntimeMajor = "runtime_major"
	fieldRuntimeMinor = "runtime_minor"
	fieldHasGPU       = "has_gpu"
)

// EncodeProbeResult encodes the result as a JSON object (a google.protobuf.Struct), as written by the probe program.
func EncodeProbeResult(r ProbeResult) ([]byte, error) {
	s, err := structpb.NewStruct(map[string]any{
		fieldDriverMajor:  r.Driver.Major,
		fieldDriverMinor:  r.Driver.Minor,
		fieldRuntimeMajor: r.Runtime.Major,
		fieldRuntimeMinor: r.Runtime.Minor,
		fieldHasGPU:       r.HasGPU,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode probe result")
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode probe result")
	}
	return data, nil
}

// DecodeProbeResult parses the output of EncodeProbeResult.
func DecodeProbeResult(data []byte) (ProbeResult, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal(bytes.TrimSpace(data), &s); err != nil {
		return ProbeResult{}, errors.Wrapf(err, "invalid probe output %q", data)
	}
	fields := s.GetFields()
	getInt := func(name string) (int, error) {
		v, found := fields[name]
		if !found {
			return 0, errors.Errorf("probe output is missing %q", name)
		}
		num, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok || num.NumberValue < 0 || num.NumberValue != float64(int(num.NumberValue)) {
			return 0, errors.Errorf("probe output field %q is not a non-negative integer: %v", name, v)
		}
		return int(num.NumberValue), nil
	}

	var r ProbeResult
	var err error
	for _, f := range []struct {
		name string
		ptr  *int
	}{
		{fieldDriverMajor, &r.Driver.Major},
		{fieldDriverMinor, &r.Driver.Minor},
		{fieldRuntimeMajor, &r.Runtime.Major},
		{fieldRuntimeMinor, &r.Runtime.Minor},
	} {
		if *f.ptr, err = getInt(f.name); err != nil {
			return ProbeResult{}, err
		}
	}
	r.HasGPU = fields[fieldHasGPU].GetBoolValue()
	return r, nil
}
