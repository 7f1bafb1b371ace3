package align

import "unsafe"

// Alignment is the byte alignment of allocated backing (one cache line,
// and a multiple of the 8-byte word used by the word kernels).
const Alignment = 64

// Alloc allocates a zeroed byte slice of the given size whose first byte
// sits at an address divisible by Alignment. It returns nil for size <= 0.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}

	// We need enough space to shift the start pointer up to Alignment-1 bytes
	buf := make([]byte, size+Alignment)

	offset := Offset(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// Offset returns the number of bytes to add to p to reach the next
// Alignment boundary (0 if p is already aligned).
func Offset(p unsafe.Pointer) uintptr {
	addr := uintptr(p)
	return (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)
}

// IsAligned reports whether p is a multiple of n, which must be a power
// of two.
func IsAligned(p unsafe.Pointer, n uintptr) bool {
	return uintptr(p)&(n-1) == 0
}
