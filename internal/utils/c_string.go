package utils

import "C"
import (
	"errors"
	"fmt"
	"strings"
	"unsafe"
)

var ErrInteriorNul = errors.New("string contains an interior NUL byte")

// SafeCString copies a Go string into C memory allocated with Malloc. The
// string must not contain NUL bytes since C would silently cut it short.
func SafeCString(s string) (*C.char, error) {
	// Validate string length is reasonable (less than 1GB)
	if len(s) > 1<<30 {
		return nil, errors.New("string too large")
	}

	if strings.IndexByte(s, 0) >= 0 {
		return nil, ErrInteriorNul
	}

	size, err := SafeIntToUint32(len(s) + 1)

	if err != nil {
		return nil, fmt.Errorf("invalid string length: %w", err)
	}

	ptr := Malloc(uintptr(size))

	if ptr == nil {
		return nil, errors.New("malloc failed")
	}

	buf := unsafe.Slice((*byte)(ptr), len(s)+1)
	copy(buf, s)
	buf[len(s)] = 0

	return (*C.char)(ptr), nil
}

// GoString copies a NUL-terminated C string into Go memory, replacing
// invalid UTF-8 sequences. A nil pointer yields an empty string and false.
func GoString(ptr unsafe.Pointer) (string, bool) {
	if ptr == nil {
		return "", false
	}

	s := C.GoString((*C.char)(ptr))

	return strings.ToValidUTF8(s, "\uFFFD"), true
}

// CopyCString writes s into the capacity bytes at dst as a NUL-terminated
// string, truncating it to capacity-1 bytes when needed. It reports whether
// s had to be truncated. Nothing is written when capacity is not positive.
func CopyCString(dst unsafe.Pointer, capacity int, s string) (truncated bool) {
	if dst == nil || capacity <= 0 {
		return len(s) > 0
	}

	n := len(s)

	if n > capacity-1 {
		n = capacity - 1
		truncated = true
	}

	buf := unsafe.Slice((*byte)(dst), capacity)
	copy(buf, s[:n])
	buf[n] = 0

	return truncated
}
