package main

// samplePTX is the kernel `__global__ void k(float *x) { *x = 1.0f; }`, compiled by NVVM for sm_52.
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
