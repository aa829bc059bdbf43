package patch

import (
	"fmt"
	"testing"

	"github.com/gomlx/goptxcompiler/version"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"PTXCOMPILER_CHECK_CODEGEN_PATCH_NEEDED",
	"PTXCOMPILER_APPLY_CODEGEN_PATCH",
	"PTXCOMPILER_KNOWN_DRIVER_VERSION",
	"PTXCOMPILER_KNOWN_RUNTIME_VERSION",
	"PTXCOMPILER_PROBE_BINARY",
}

func clearConfigEnv(t *testing.T) {
	for _, name := range configEnvVars {
		unsetEnv(t, name)
	}
}

func TestReadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg := ReadConfig()
	require.True(t, bool(cfg.CheckPatchNeeded))
	require.False(t, bool(cfg.ApplyPatch))
	require.Empty(t, cfg.KnownDriverVersion)
	require.Empty(t, cfg.ProbeBinary)
}

func TestReadConfig(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PTXCOMPILER_CHECK_CODEGEN_PATCH_NEEDED", "0")
	t.Setenv("PTXCOMPILER_APPLY_CODEGEN_PATCH", "1")
	t.Setenv("PTXCOMPILER_KNOWN_DRIVER_VERSION", "11.4")
	t.Setenv("PTXCOMPILER_KNOWN_RUNTIME_VERSION", "11.8")
	t.Setenv("PTXCOMPILER_PROBE_BINARY", "/opt/bin/probe")
	cfg := ReadConfig()
	require.False(t, bool(cfg.CheckPatchNeeded))
	require.True(t, bool(cfg.ApplyPatch))
	require.Equal(t, "/opt/bin/probe", cfg.ProbeBinary)
	driver, runtime, err := cfg.KnownVersions()
	require.NoError(t, err)
	require.Equal(t, version.Pair{Major: 11, Minor: 4}, driver)
	require.Equal(t, version.Pair{Major: 11, Minor: 8}, runtime)
}

func TestReadConfigMalformed(t *testing.T) {
	// A malformed force switch doesn't turn off the probe.
	clearConfigEnv(t)
	t.Setenv("PTXCOMPILER_APPLY_CODEGEN_PATCH", "yes")
	t.Setenv("PTXCOMPILER_KNOWN_DRIVER_VERSION", "12.0")
	t.Setenv("PTXCOMPILER_KNOWN_RUNTIME_VERSION", "12.2")
	cfg := ReadConfig()
	require.True(t, bool(cfg.CheckPatchNeeded))
	require.False(t, bool(cfg.ApplyPatch))
	require.Equal(t, "12.0", cfg.KnownDriverVersion)
	require.Equal(t, "12.2", cfg.KnownRuntimeVersion)

	// A malformed probe switch doesn't change the force switch.
	clearConfigEnv(t)
	t.Setenv("PTXCOMPILER_CHECK_CODEGEN_PATCH_NEEDED", "definitely")
	t.Setenv("PTXCOMPILER_APPLY_CODEGEN_PATCH", "1")
	cfg = ReadConfig()
	require.False(t, bool(cfg.CheckPatchNeeded))
	require.True(t, bool(cfg.ApplyPatch))
}

func TestSwitchValues(t *testing.T) {
	for value, want := range map[string]bool{
		"0": false, "1": true, "2": true, "-1": true, " 3 ": true,
		"true": true, "false": false, "T": true,
		"": false, "yes": false, "1.0": false,
	} {
		var s Switch
		require.NoError(t, s.SetValue(value))
		require.Equalf(t, want, bool(s), "Switch.SetValue(%q)", value)
	}

	// Integers other than 0 and 1 force the patch.
	clearConfigEnv(t)
	t.Setenv("PTXCOMPILER_APPLY_CODEGEN_PATCH", "2")
	require.True(t, bool(ReadConfig().ApplyPatch))
}

func TestKnownVersionsErrors(t *testing.T) {
	_, _, err := Config{}.KnownVersions()
	require.Error(t, err)
	_, _, err = Config{KnownDriverVersion: "12", KnownRuntimeVersion: "12.2"}.KnownVersions()
	require.ErrorContains(t, err, "PTXCOMPILER_KNOWN_DRIVER_VERSION")
	_, _, err = Config{KnownDriverVersion: "12.0", KnownRuntimeVersion: "x.y"}.KnownVersions()
	require.ErrorContains(t, err, "PTXCOMPILER_KNOWN_RUNTIME_VERSION")
}

func TestConfigHelp(t *testing.T) {
	help, err := ConfigHelp()
	require.NoError(t, err)
	fmt.Println(help)
	for _, name := range configEnvVars {
		require.Contains(t, help, name)
	}
}
