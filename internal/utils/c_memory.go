package utils

/*
#include <stdlib.h>
*/
import "C"
import (
	"sync/atomic"
	"unsafe"
)

var liveAllocations atomic.Int64

// Malloc returns size zeroed bytes of C memory, or nil when the allocation
// fails. Memory from Malloc must be released with Free.
func Malloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		size = 1
	}

	ptr := C.calloc(1, C.size_t(size))

	if ptr == nil {
		return nil
	}

	liveAllocations.Add(1)

	return ptr
}

// Free releases memory returned by Malloc or SafeCString. Free(nil) is a
// no-op.
func Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	C.free(ptr)
	liveAllocations.Add(-1)
}

// LiveAllocations returns the number of blocks handed out by Malloc that have
// not been released yet.
func LiveAllocations() int64 {
	return liveAllocations.Load()
}
