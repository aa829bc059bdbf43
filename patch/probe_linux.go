//go:build linux

package patch

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProbeSysProcAttr makes sure the probe doesn't outlive the calling thread.
func setProbeSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: unix.SIGKILL}
}
