//go:build !linux

package cudaquery

import (
	"github.com/gomlx/goptxcompiler/version"
	"github.com/pkg/errors"
)

var errNotSupported = errors.New("CUDA version queries are only supported on linux")

// DriverVersion is not supported on this platform.
func DriverVersion() (version.Pair, error) {
	return version.Pair{}, errNotSupported
}

// RuntimeVersion is not supported on this platform.
func RuntimeVersion() (version.Pair, error) {
	return version.Pair{}, errNotSupported
}

// HasNvidiaGPU always returns false on this platform.
func HasNvidiaGPU() bool {
	return false
}
