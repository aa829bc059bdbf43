//go:build !linux

package patch

import "os/exec"

func setProbeSysProcAttr(cmd *exec.Cmd) {}
