// Package cbuffer provides a wrapper for a C buffer used to move bytes across the cgo boundary: the PTX source
// handed to the native compiler, and the logs and compiled programs fetched back from it.
package cbuffer

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"
import (
	"runtime"
	"unsafe"

	"k8s.io/klog/v2"
)

// CBuffer is a generic wrapper to C data, which is assumed to own the underlying data.
type CBuffer struct {
	wrapper *cBufferWrapper
}

type cBufferWrapper struct {
	size  int
	data  unsafe.Pointer
	stack []byte
}

// New returns a CBuffer object to manage the C data.
//
// If `withStack` is set to true, it also stores a stack of where it was created.
// This is used for debugging if it is garbage collected without being freed.
func New(data unsafe.Pointer, size int, withStack bool) *CBuffer {
	b := &CBuffer{&cBufferWrapper{data: data, size: size}}
	if withStack {
		buf := make([]byte, 10*1024)
		n := runtime.Stack(buf, false)
		b.wrapper.stack = buf[:n]
	}
	runtime.AddCleanup(b, func(wrapper *cBufferWrapper) {
		if wrapper.data == nil {
			return // Correctly freed.
		}

		// The data is not freed here: the native side may still hold a pointer to it.
		// A leak with a warning is preferable to a use-after-free.
		if wrapper.stack == nil {
			klog.Errorf("CBuffer of %d bytes garbage collected without the corresponding data being freed", wrapper.size)
		} else {
			klog.Errorf("CBuffer of %d bytes garbage collected without the corresponding data being freed. Stack:\n%s\n", wrapper.size, wrapper.stack)
		}
	}, b.wrapper)
	return b
}

// NewSized allocates a zero-filled C buffer of the given size.
//
// It returns nil if the C allocation fails. A size of 0 still allocates one byte, so a valid
// (non-NULL) pointer can be handed to C functions that write nothing.
//
// With klog verbosity 2 or higher (-v=2), the stack of the allocation is recorded and reported if the
// buffer is leaked.
func NewSized(size int) *CBuffer {
	allocSize := size
	if allocSize < 1 {
		allocSize = 1
	}
	data := C.calloc(C.size_t(allocSize), 1)
	if data == nil {
		return nil
	}
	return New(data, size, klog.V(2).Enabled())
}

// NewFromBytes returns a CBuffer holding a copy of the given bytes, with one extra trailing '\0' that
// is not included in Len.
//
// It returns nil if the C allocation fails.
func NewFromBytes(data []byte) *CBuffer {
	b := NewSized(len(data) + 1)
	if b == nil {
		return nil
	}
	if len(data) > 0 {
		C.memcpy(b.wrapper.data, unsafe.Pointer(unsafe.SliceData(data)), C.size_t(len(data)))
	}
	b.wrapper.size = len(data)
	return b
}

func (wrapper *cBufferWrapper) Free() {
	if wrapper.data == nil {
		return
	}
	C.free(wrapper.data)
	wrapper.data = nil
	wrapper.size = 0
}

// Free the underlying data.
// It sets the pointer to nil, so if it is called again, it is a no-op.
func (b *CBuffer) Free() {
	b.wrapper.Free()
}

// Data returns the pointer to the C data, or nil if it has been freed.
func (b *CBuffer) Data() unsafe.Pointer {
	return b.wrapper.data
}

// Len returns the number of bytes in the buffer, 0 if it has been freed.
func (b *CBuffer) Len() int {
	return b.wrapper.size
}

// Bytes returns the buffer as a byte slice pointing to the C data.
//
// Ownership is not transferred: remember to free CBuffer afterward, and don't use the slice after that.
func (b *CBuffer) Bytes() []byte {
	if b.wrapper.data == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.wrapper.data), b.wrapper.size)
}

// CopyBytes returns a Go copy of the first n bytes of the buffer, with n clamped to the buffer length.
func (b *CBuffer) CopyBytes(n int) []byte {
	if b.wrapper.data == nil || n <= 0 {
		return []byte{}
	}
	if n > b.wrapper.size {
		n = b.wrapper.size
	}
	return C.GoBytes(b.wrapper.data, C.int(n))
}
