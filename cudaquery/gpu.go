//go:build linux

package cudaquery

import (
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"k8s.io/klog/v2"
)

var hasNvidiaGPU = sync.OnceValue(func() bool {
	matches, err := filepath.Glob("/dev/nvidia*")
	if err != nil {
		klog.Errorf("Failed to figure out if there is an Nvidia GPU installed while searching for files matching \"/dev/nvidia*\": %v", err)
	}
	if len(matches) > 0 {
		return true
	}
	klog.V(1).Infof("No NVidia devices found matching \"/dev/nvidia*\", checking nvidia-smi command instead.")

	// Execute the nvidia-smi command if present
	if _, lookErr := exec.LookPath("nvidia-smi"); lookErr == nil {
		output, cmdErr := exec.Command("nvidia-smi").CombinedOutput()
		if cmdErr == nil && strings.Contains(string(output), "NVIDIA-SMI") {
			return true
		}
	}
	klog.V(1).Infof("nvidia-smi command did not succeed, assuming there are no GPU cards installed in the system.")
	return false
})

// HasNvidiaGPU tries to guess if there is an actual Nvidia GPU installed (as opposed to only the drivers
// installed, but no actual hardware).
// It checks for the device files in /dev/nvidia*, and then for a successful nvidia-smi.
// The result is cached.
func HasNvidiaGPU() bool {
	return hasNvidiaGPU()
}
