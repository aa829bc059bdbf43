//go:build linux

package dynlib

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

func TestOpen(t *testing.T) {
	lib, err := Open("libc.so.6")
	require.NoError(t, err)
	ptr, err := lib.Symbol("getpid")
	require.NoError(t, err)
	require.NotNil(t, ptr)

	// Cached.
	lib2 := must.M1(Open("libc.so.6"))
	require.Same(t, lib, lib2)

	_, err = lib.Symbol("milliways_not_a_symbol")
	require.Error(t, err)

	_, err = Open("libmilliways.so.42")
	fmt.Printf("Loading libmilliways, expected error: %v\n", err)
	require.Error(t, err)

	require.NoError(t, lib.Close())
	require.NoError(t, lib.Close()) // No-op.
}

func TestOpenFirst(t *testing.T) {
	lib, err := OpenFirst([]string{"libmilliways.so.42", "libc.so.6"}, nil)
	require.NoError(t, err)
	require.Equal(t, "libc.so.6", lib.Name)

	_, err = OpenFirst([]string{"libmilliways.so.42"}, []string{"libmilliways.so*"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "libmilliways")
}

func TestLoadLibraryPaths(t *testing.T) {
	dir := t.TempDir()
	confDir := filepath.Join(dir, "ld.so.conf.d")
	must.M(os.Mkdir(confDir, 0o755))
	must.M(os.WriteFile(filepath.Join(confDir, "cuda.conf"), []byte("/usr/local/cuda/lib64\n"), 0o644))
	must.M(os.WriteFile(filepath.Join(confDir, "other.conf"), []byte("# comment\n  /opt/lib  \n\n"), 0o644))
	conf := filepath.Join(dir, "ld.so.conf")
	must.M(os.WriteFile(conf, []byte("include ld.so.conf.d/*.conf\n/usr/lib/extra\n"), 0o644))

	paths := loadLibraryPaths([]string{"/first"}, conf)
	require.Equal(t, []string{"/first", "/usr/local/cuda/lib64", "/opt/lib", "/usr/lib/extra"}, paths)

	// Missing files are ignored.
	require.Equal(t, []string{"/first"}, loadLibraryPaths([]string{"/first"}, filepath.Join(dir, "missing.conf")))
}

func TestSearchPaths(t *testing.T) {
	t.Setenv(CUDAHomeEnv, "/opt/cuda-test")
	t.Setenv("LD_LIBRARY_PATH", "relative/dir::/opt/cuda-test/lib64:/opt/ld-path")
	paths := SearchPaths()
	require.Equal(t, "/opt/cuda-test/lib64", paths[0])
	require.Equal(t, "/opt/ld-path", paths[1])
	require.NotContains(t, paths, "relative/dir")
}

func TestFind(t *testing.T) {
	dir1, dir2 := t.TempDir(), t.TempDir()
	for _, name := range []string{"libcudart.so.11.0", "libcudart.so.12"} {
		must.M(os.WriteFile(filepath.Join(dir2, name), nil, 0o644))
	}
	got, found := Find([]string{dir1, dir2}, "libcudart.so*")
	require.True(t, found)
	require.Equal(t, filepath.Join(dir2, "libcudart.so.12"), got)

	_, found = Find([]string{dir1}, "libcudart.so*")
	require.False(t, found)
}
