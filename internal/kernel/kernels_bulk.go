package kernel

import (
	"bytes"
	"unsafe"
)

// Bulk kernels hand the region to the Go runtime, whose copy and search
// routines are vectorized per architecture. None of them allocate.

func region(p unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(p), n)
}

// copyBulk serves both directions: the builtin copy is overlap-safe.
func copyBulk(dst, src unsafe.Pointer, n uintptr) {
	copy(region(dst, n), region(src, n))
}

// fillBulk seeds one byte and doubles the filled prefix with log2(n)
// copies.
func fillBulk(dst unsafe.Pointer, c byte, n uintptr) {
	if n == 0 {
		return
	}
	b := region(dst, n)
	b[0] = c
	for i := uintptr(1); i < n; i *= 2 {
		copy(b[i:], b[:i])
	}
}

func compareBulk(a, b unsafe.Pointer, n uintptr) int {
	return bytes.Compare(region(a, n), region(b, n))
}

func indexByteBulk(p unsafe.Pointer, c byte, n uintptr) uintptr {
	if i := bytes.IndexByte(region(p, n), c); i >= 0 {
		return uintptr(i)
	}
	return n
}
