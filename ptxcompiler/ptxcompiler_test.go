package ptxcompiler

// Common initialization and testing tools for all test files.
// Tests that call the native library require the CUDA toolkit (libnvptxcompiler_static.a) at build time.

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

var flagGPUName = flag.String("gpu_name", "sm_75", "GPU architecture used as --gpu-name in tests")

func init() {
	klog.InitFlags(nil)
}

type errTester[T any] struct {
	value T
	err   error
}

// capture is a shortcut to test that there is no error and return the value.
func capture[T any](value T, err error) errTester[T] {
	return errTester[T]{value, err}
}

func (e errTester[T]) Test(t *testing.T) T {
	require.NoError(t, e.err)
	return e.value
}

// samplePTX is a trivial kernel `__global__ void k(float *x) { *x = 1.0f; }`.
const samplePTX = `
//
// Generated by NVIDIA NVVM Compiler
//
// Compiler Build ID: CL-29745058
// Cuda compilation tools, release 11.3, V11.3.58
// Based on NVVM 7.0.1
//

.version 7.4
.target sm_52
.address_size 64

        // .globl       _Z1kPf

.visible .entry _Z1kPf(
        .param .u64 _Z1kPf_param_0
)
{
        .reg .b32       %r<2>;
        .reg .b64       %rd<3>;


        ld.param.u64    %rd1, [_Z1kPf_param_0];
        cvta.to.global.u64      %rd2, %rd1;
        mov.u32         %r1, 1065353216;
        st.global.u32   [%rd2], %r1;
        ret;

}
`

func gpuNameOption() string {
	return "--gpu-name=" + *flagGPUName
}

// newCompiled creates a Compiler for samplePTX and compiles it with the extra options.
func newCompiled(t *testing.T, extraOptions ...string) *Compiler {
	c := capture(NewFromString(samplePTX)).Test(t)
	t.Cleanup(func() { require.NoError(t, c.Destroy()) })
	require.NoError(t, c.Compile(append([]string{gpuNameOption()}, extraOptions...)...))
	return c
}
