package patch

import (
	"fmt"
	"os"
	"testing"

	"github.com/gomlx/goptxcompiler/version"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// helperProbeEnv makes the test binary behave as a probe program, see TestMain.
const helperProbeEnv = "PATCH_TEST_HELPER_PROBE"

// TestMain lets the test binary itself be used as the probe program by ExecProbe tests.
func TestMain(m *testing.M) {
	switch os.Getenv(helperProbeEnv) {
	case "":
		os.Exit(m.Run())
	case "ok":
		data, err := EncodeProbeResult(ProbeResult{
			Driver:  version.Pair{Major: 11, Minor: 4},
			Runtime: version.Pair{Major: 11, Minor: 8},
			HasGPU:  true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", data)
		os.Exit(0)
	case "fail":
		fmt.Printf("partial output\n")
		fmt.Fprintf(os.Stderr, "CUDA driver not found\n")
		os.Exit(1)
	case "garbage":
		fmt.Printf("11 4 11 8\n")
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "unknown %s=%q\n", helperProbeEnv, os.Getenv(helperProbeEnv))
	os.Exit(2)
}

// unsetEnv unsets the environment variable for the duration of the test.
func unsetEnv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "") // Registers the restoration of the previous value.
	require.NoError(t, os.Unsetenv(name))
}

func TestDecideFromVersions(t *testing.T) {
	v := func(major, minor int) version.Pair { return version.Pair{Major: major, Minor: minor} }
	require.Equal(t, Needed, DecideFromVersions(v(11, 4), v(11, 8)))
	require.Equal(t, Needed, DecideFromVersions(v(11, 8), v(12, 0)))
	require.Equal(t, NotNeeded, DecideFromVersions(v(12, 0), v(12, 0)))
	require.Equal(t, NotNeeded, DecideFromVersions(v(12, 4), v(11, 8)))
}

func TestDecisionString(t *testing.T) {
	require.Equal(t, "needed", Needed.String())
	require.Equal(t, "not-needed", NotNeeded.String())
	require.Equal(t, "indeterminate", Indeterminate.String())
	require.Equal(t, "Decision(7)", Decision(7).String())
}
