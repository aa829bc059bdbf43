// ptxcompiler_probe prints the versions of the CUDA driver and runtime installed, as a JSON object.
//
// It is run as a child process by the patch package, so loading the driver and the runtime doesn't affect
// the calling process. It exits with 1 if any of the versions can't be determined.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gomlx/goptxcompiler/cudaquery"
	"github.com/gomlx/goptxcompiler/patch"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	var result patch.ProbeResult
	var err error
	redirectStdoutToStderr(func() {
		result, err = probe()
	})
	if err != nil {
		klog.Errorf("%+v", err)
		klog.Flush()
		os.Exit(1)
	}
	data, err := patch.EncodeProbeResult(result)
	if err != nil {
		klog.Errorf("%+v", err)
		klog.Flush()
		os.Exit(1)
	}
	fmt.Printf("%s\n", data)
}

func probe() (result patch.ProbeResult, err error) {
	result.HasGPU = cudaquery.HasNvidiaGPU()
	result.Driver, err = cudaquery.DriverVersion()
	if err != nil {
		return result, errors.WithMessage(err, "failed to query CUDA driver version")
	}
	result.Runtime, err = cudaquery.RuntimeVersion()
	if err != nil {
		return result, errors.WithMessage(err, "failed to query CUDA runtime version")
	}
	klog.V(1).Infof("driver=%s runtime=%s has_gpu=%v", result.Driver, result.Runtime, result.HasGPU)
	return result, nil
}
