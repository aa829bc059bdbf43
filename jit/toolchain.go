package jit

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// CUDAHomeEnv is the environment variable pointing to the CUDA toolkit installation.
const CUDAHomeEnv = "CUDA_HOME"

// ToolchainLinker links with the CUDA toolkit command line tools: ptxas for a single module,
// ptxas plus nvlink for several modules.
//
// The tools are searched in $CUDA_HOME/bin, /usr/local/cuda/bin and then $PATH.
type ToolchainLinker struct {
	// BinDir overrides the directory where ptxas and nvlink are searched.
	BinDir string
}

// findTool returns the path to the named CUDA tool.
func (t *ToolchainLinker) findTool(name string) (string, error) {
	var dirs []string
	if t.BinDir != "" {
		dirs = append(dirs, t.BinDir)
	}
	if home := os.Getenv(CUDAHomeEnv); home != "" {
		dirs = append(dirs, filepath.Join(home, "bin"))
	}
	dirs = append(dirs, "/usr/local/cuda/bin")
	for _, dir := range dirs {
		toolPath := filepath.Join(dir, name)
		if info, err := os.Stat(toolPath); err == nil && !info.IsDir() {
			return toolPath, nil
		}
	}
	toolPath, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Wrapf(err, "can't find CUDA tool %q in %v or $PATH, set $%s", name, dirs, CUDAHomeEnv)
	}
	return toolPath, nil
}

// LinkCubin implements Linker.
func (t *ToolchainLinker) LinkCubin(ptx []string, cc ComputeCapability, opts LinkOptions) ([]byte, error) {
	if len(ptx) == 0 {
		return nil, errors.New("no PTX modules to link")
	}
	ptxas, err := t.findTool("ptxas")
	if err != nil {
		return nil, err
	}
	tmpDir, err := os.MkdirTemp("", "jit_link_")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temporary directory for linking")
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			klog.Warningf("Failed to remove temporary directory %q: %v", tmpDir, err)
		}
	}()

	outputPath := filepath.Join(tmpDir, "output.cubin")
	options := CompilerOptions(cc, opts)
	if len(ptx) == 1 {
		inputPath := filepath.Join(tmpDir, "module_0.ptx")
		if err := os.WriteFile(inputPath, []byte(ptx[0]), 0o600); err != nil {
			return nil, errors.Wrapf(err, "failed to write %q", inputPath)
		}
		if err := runTool(ptxas, append(options, "-o", outputPath, inputPath)...); err != nil {
			return nil, err
		}
	} else {
		nvlink, err := t.findTool("nvlink")
		if err != nil {
			return nil, err
		}
		linkArgs := []string{"--arch=" + cc.Arch(), "-o", outputPath}
		for ii, module := range ptx {
			inputPath := filepath.Join(tmpDir, fmt.Sprintf("module_%d.ptx", ii))
			objectPath := filepath.Join(tmpDir, fmt.Sprintf("module_%d.cubin", ii))
			if err := os.WriteFile(inputPath, []byte(module), 0o600); err != nil {
				return nil, errors.Wrapf(err, "failed to write %q", inputPath)
			}
			args := append([]string{"-c"}, options...)
			if err := runTool(ptxas, append(args, "-o", objectPath, inputPath)...); err != nil {
				return nil, err
			}
			linkArgs = append(linkArgs, objectPath)
		}
		if err := runTool(nvlink, linkArgs...); err != nil {
			return nil, err
		}
	}
	cubin, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read linked cubin %q", outputPath)
	}
	return cubin, nil
}

// runTool executes the tool and returns an error with its output if it fails.
func runTool(tool string, args ...string) error {
	klog.V(2).Infof("running %s %q", tool, args)
	cmd := exec.Command(tool, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s failed:\n%s", filepath.Base(tool), output.String())
	}
	if output.Len() > 0 {
		klog.V(2).Infof("%s output:\n%s", filepath.Base(tool), output.String())
	}
	return nil
}
