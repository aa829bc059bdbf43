package patch

import (
	"os"
	"testing"

	"github.com/gomlx/goptxcompiler/version"
	"github.com/stretchr/testify/require"
)

func helperProbe(mode string) *ExecProbe {
	return &ExecProbe{
		Path: os.Args[0],
		Args: []string{"-test.run=^$"},
		Env:  []string{helperProbeEnv + "=" + mode},
	}
}

func TestProbeResultEncoding(t *testing.T) {
	want := ProbeResult{Driver: version.Pair{Major: 12, Minor: 2}, Runtime: version.Pair{Major: 12, Minor: 4}}
	data, err := EncodeProbeResult(want)
	require.NoError(t, err)
	got, err := DecodeProbeResult(data)
	require.NoError(t, err)
	require.Equal(t, want, got)

	for _, bad := range []string{
		"",
		"12 2 12 4",
		`{"driver_major": 12, "driver_minor": 2, "runtime_major": 12}`,
		`{"driver_major": 12, "driver_minor": 2.5, "runtime_major": 12, "runtime_minor": 4}`,
		`{"driver_major": "12", "driver_minor": 2, "runtime_major": 12, "runtime_minor": 4}`,
	} {
		_, err = DecodeProbeResult([]byte(bad))
		require.Errorf(t, err, "DecodeProbeResult(%q) should have failed", bad)
	}
}

func TestExecProbe(t *testing.T) {
	result, err := helperProbe("ok").Probe()
	require.NoError(t, err)
	require.Equal(t, version.Pair{Major: 11, Minor: 4}, result.Driver)
	require.Equal(t, version.Pair{Major: 11, Minor: 8}, result.Runtime)
	require.True(t, result.HasGPU)
}

func TestExecProbeFailures(t *testing.T) {
	_, err := helperProbe("fail").Probe()
	require.Error(t, err)
	require.Contains(t, err.Error(), "partial output")
	require.Contains(t, err.Error(), "CUDA driver not found")

	_, err = helperProbe("garbage").Probe()
	require.Error(t, err)

	_, err = (&ExecProbe{Path: "/nonexistent/ptxcompiler_probe"}).Probe()
	require.Error(t, err)
}
