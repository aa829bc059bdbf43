package ptxcompiler

/*
#include <stdlib.h>
*/
import "C"
import (
	"reflect"
	"unsafe"
)

// File implements the few cgo helpers used by the binding.
// C types cannot be exported (see https://github.com/golang/go/issues/13467), so they live in the package.

// cFree calls C.free() on the unsafe.Pointer version of data.
func cFree[T any](data *T) {
	C.free(unsafe.Pointer(data))
}

// cSizeOf returns the size of the given type in bytes, padding included.
func cSizeOf[T any]() C.size_t {
	var ptr *T
	return C.size_t(reflect.TypeOf(ptr).Elem().Size())
}

// cMalloc allocates a T in the C heap and initializes it to zero.
// It must be manually freed with cFree() by the user. It returns nil if the allocation fails.
func cMalloc[T any]() (ptr *T) {
	return (*T)(C.calloc(1, cSizeOf[T]()))
}

// cMallocArrayAndSet allocates space to hold n copies of T in the C heap, and sets each element `i` with the
// result of `setFn(i)`. It returns nil if the allocation fails.
// It must be manually freed with cFree() by the user.
func cMallocArrayAndSet[T any](n int, setFn func(i int) T) (ptr *T) {
	allocN := max(n, 1)
	ptr = (*T)(C.calloc(C.size_t(allocN), cSizeOf[T]()))
	if ptr == nil {
		return nil
	}
	slice := unsafe.Slice(ptr, n)
	for ii := range n {
		slice[ii] = setFn(ii)
	}
	return ptr
}

// cStrings converts strs to C strings. The returned free function releases all of them.
func cStrings(strs []string) (cStrs []*C.char, free func()) {
	cStrs = make([]*C.char, len(strs))
	for ii, s := range strs {
		cStrs[ii] = C.CString(s)
	}
	free = func() {
		for _, cs := range cStrs {
			cFree(cs)
		}
	}
	return
}
