//go:build linux

// Package cudaquery reports the versions of the installed CUDA driver and runtime.
//
// Loading the NVIDIA driver and the CUDA runtime into a process has side effects (they initialize
// internal state and may print to stdout), so these functions are meant to be called from a short-lived
// child process, see cmd/ptxcompiler_probe.
package cudaquery

/*
typedef int (*intOutFn)(int *);

static int call_int_out_fn(void *fn, int *value) {
	return ((intOutFn)fn)(value);
}
*/
import "C"
import (
	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/gomlx/goptxcompiler/internal/dynlib"
	"github.com/gomlx/goptxcompiler/version"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DriverVersion returns the CUDA version supported by the installed driver.
//
// It asks NVML first and falls back to cuDriverGetVersion from libcuda.
func DriverVersion() (version.Pair, error) {
	v, nvmlErr := nvmlDriverVersion()
	if nvmlErr == nil {
		return v, nil
	}
	klog.V(1).Infof("NVML failed to report the CUDA driver version, trying libcuda: %v", nvmlErr)
	v, err := callVersionFn([]string{"libcuda.so.1", "libcuda.so"}, []string{"libcuda.so*"}, "cuDriverGetVersion")
	if err != nil {
		return version.Pair{}, errors.WithMessagef(err, "failed to get the CUDA driver version (NVML error: %v)", nvmlErr)
	}
	return v, nil
}

func nvmlDriverVersion() (version.Pair, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return version.Pair{}, errors.Errorf("nvml.Init: %s", nvml.ErrorString(ret))
	}
	defer func() {
		if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
			klog.Warningf("nvml.Shutdown: %s", nvml.ErrorString(ret))
		}
	}()
	v, ret := nvml.SystemGetCudaDriverVersion()
	if ret != nvml.SUCCESS {
		return version.Pair{}, errors.Errorf("nvml.SystemGetCudaDriverVersion: %s", nvml.ErrorString(ret))
	}
	return version.FromCUDAInt(v), nil
}

// RuntimeVersion returns the version of the CUDA runtime (libcudart) found in the system.
//
// The library is searched with the dynamic linker rules, then in $CUDA_HOME/lib64, LD_LIBRARY_PATH and
// the /etc/ld.so.conf directories.
func RuntimeVersion() (version.Pair, error) {
	return callVersionFn([]string{"libcudart.so"}, []string{"libcudart.so.*", "libcudart.so"}, "cudaRuntimeGetVersion")
}

// callVersionFn loads the first available library and calls fnName, a function with the signature
// `int fn(int *version)` returning 0 on success, with the version encoded as 1000*major + 10*minor.
func callVersionFn(names, patterns []string, fnName string) (version.Pair, error) {
	lib, err := dynlib.OpenFirst(names, patterns)
	if err != nil {
		return version.Pair{}, err
	}
	fn, err := lib.Symbol(fnName)
	if err != nil {
		return version.Pair{}, err
	}
	var v C.int
	if status := C.call_int_out_fn(fn, &v); status != 0 {
		return version.Pair{}, errors.Errorf("%s (from %s) returned error %d", fnName, lib.Name, int(status))
	}
	klog.V(1).Infof("%s (from %s) = %d", fnName, lib.Name, int(v))
	return version.FromCUDAInt(int(v)), nil
}

