//go:build linux

package cudaquery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// TestQueries requires an NVIDIA driver and the CUDA runtime. It is skipped on machines without a GPU.
func TestQueries(t *testing.T) {
	if !HasNvidiaGPU() {
		t.Skip("no NVIDIA GPU found")
	}
	driver, err := DriverVersion()
	require.NoError(t, err)
	fmt.Printf("CUDA driver version: %s\n", driver)
	require.GreaterOrEqual(t, driver.Major, 10)

	runtimeVersion, err := RuntimeVersion()
	require.NoError(t, err)
	fmt.Printf("CUDA runtime version: %s\n", runtimeVersion)
	require.GreaterOrEqual(t, runtimeVersion.Major, 10)
}

func TestCallVersionFnMissing(t *testing.T) {
	_, err := callVersionFn([]string{"libmilliways.so.42"}, nil, "milliwaysGetVersion")
	require.Error(t, err)
}
