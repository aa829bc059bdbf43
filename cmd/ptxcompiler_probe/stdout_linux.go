//go:build linux

package main

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"
)

// redirectStdoutToStderr runs fn with the file descriptor 1 (stdout) pointing to stderr, so anything the native
// libraries print doesn't mix with the probe result. The original stdout is restored afterward.
//
// File descriptors are a global resource: this is not reentrant.
func redirectStdoutToStderr(fn func()) {
	savedFd, err := redirectStdout()
	if err != nil {
		klog.Errorf("Failed to redirect stdout while querying CUDA versions: %+v", err)
	} else {
		defer func() {
			if err := unix.Dup3(savedFd, 1, 0); err != nil {
				klog.Errorf("Failed unix.Dup3 while restoring stdout: %v", err)
			}
			_ = unix.Close(savedFd)
		}()
	}
	fn()
}

func redirectStdout() (savedFd int, err error) {
	savedFd, err = unix.Dup(1)
	if err != nil {
		err = errors.Wrap(err, "failed to duplicate (unix.Dup) file descriptor 1 (stdout)")
		return
	}
	if err = unix.Dup3(2, 1, 0); err != nil {
		_ = unix.Close(savedFd)
		err = errors.Wrap(err, "failed to point file descriptor 1 (stdout) to stderr")
		return
	}
	return
}
