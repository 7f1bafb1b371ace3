package kernel

import "unsafe"

// Kernel function pointers - set once at init, zero runtime overhead.
// Generic implementations are the default; install() swaps in the
// word or bulk family when selected.
var (
	kernelCopyForward  = copyForwardGeneric
	kernelCopyBackward = copyBackwardGeneric
	kernelFill         = fillGeneric
	kernelCompare      = compareGeneric
	kernelIndexByte    = indexByteGeneric
)

// install points the dispatch table at the kernels of tier t.
func install(t Tier) {
	switch t {
	case Word:
		kernelCopyForward = copyForwardWord
		kernelCopyBackward = copyBackwardWord
		kernelFill = fillWord
		kernelCompare = compareWord
		kernelIndexByte = indexByteWord
	case Bulk:
		kernelCopyForward = copyBulk
		kernelCopyBackward = copyBulk
		kernelFill = fillBulk
		kernelCompare = compareBulk
		kernelIndexByte = indexByteBulk
	default:
		t = Generic
		kernelCopyForward = copyForwardGeneric
		kernelCopyBackward = copyBackwardGeneric
		kernelFill = fillGeneric
		kernelCompare = compareGeneric
		kernelIndexByte = indexByteGeneric
	}
	activeTier = t
}

// ============================================================================
// Public API - dispatch through function pointers
// ============================================================================

// CopyForward copies n bytes from src to dst, lowest address first.
//
// SAFETY: Correct for disjoint regions and for overlapping regions with
// dst < src. Both regions must be valid for n bytes.
func CopyForward(dst, src unsafe.Pointer, n uintptr) {
	kernelCopyForward(dst, src, n)
}

// CopyBackward copies n bytes from src to dst, highest address first.
//
// SAFETY: Correct for disjoint regions and for overlapping regions with
// dst > src. Both regions must be valid for n bytes.
func CopyBackward(dst, src unsafe.Pointer, n uintptr) {
	kernelCopyBackward(dst, src, n)
}

// Fill writes c into the first n bytes at dst.
func Fill(dst unsafe.Pointer, c byte, n uintptr) {
	kernelFill(dst, c, n)
}

// Compare compares n bytes at a and b as unsigned bytes and returns
// -1, 0 or +1. It stops at the first differing byte.
func Compare(a, b unsafe.Pointer, n uintptr) int {
	return kernelCompare(a, b, n)
}

// IndexByte returns the offset of the first c within n bytes at p, or n
// if c does not occur. It never reads past p+n.
func IndexByte(p unsafe.Pointer, c byte, n uintptr) uintptr {
	return kernelIndexByte(p, c, n)
}

// ============================================================================
// Generic implementations
// ============================================================================

func copyForwardGeneric(dst, src unsafe.Pointer, n uintptr) {
	for i := uintptr(0); i < n; i++ {
		*(*byte)(unsafe.Add(dst, i)) = *(*byte)(unsafe.Add(src, i))
	}
}

func copyBackwardGeneric(dst, src unsafe.Pointer, n uintptr) {
	for i := n; i > 0; i-- {
		*(*byte)(unsafe.Add(dst, i-1)) = *(*byte)(unsafe.Add(src, i-1))
	}
}

func fillGeneric(dst unsafe.Pointer, c byte, n uintptr) {
	for i := uintptr(0); i < n; i++ {
		*(*byte)(unsafe.Add(dst, i)) = c
	}
}

func compareGeneric(a, b unsafe.Pointer, n uintptr) int {
	for i := uintptr(0); i < n; i++ {
		x := *(*byte)(unsafe.Add(a, i))
		y := *(*byte)(unsafe.Add(b, i))
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

func indexByteGeneric(p unsafe.Pointer, c byte, n uintptr) uintptr {
	for i := uintptr(0); i < n; i++ {
		if *(*byte)(unsafe.Add(p, i)) == c {
			return i
		}
	}
	return n
}
