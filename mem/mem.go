package mem

import (
	"unsafe"

	"github.com/hupe1980/memstr/internal/kernel"
)

// Copy copies n bytes from src to dst and returns dst.
//
// UB: src and dst must each be valid for n bytes and must not overlap.
// Use Move for overlapping regions.
func Copy(dst, src unsafe.Pointer, n uintptr) unsafe.Pointer {
	kernel.CopyForward(dst, src, n)
	return dst
}

// Set writes the low 8 bits of val into the first n bytes of dst and
// returns dst.
//
// UB: dst must be valid for n bytes.
func Set(dst unsafe.Pointer, val int, n uintptr) unsafe.Pointer {
	kernel.Fill(dst, byte(val), n)
	return dst
}

// Compare compares the first n bytes of a and b as unsigned bytes. It
// returns -1 or +1 according to the first differing pair, or 0 if all n
// bytes match.
//
// UB: a and b must each be valid for n bytes.
func Compare(a, b unsafe.Pointer, n uintptr) int {
	return kernel.Compare(a, b, n)
}

// Scan returns the address of the first byte equal to the low 8 bits of
// value within the first n bytes of p, or nil if there is none. Bytes
// past p+n are never read.
//
// UB: p must be valid for n bytes.
func Scan(p unsafe.Pointer, value int, n uintptr) unsafe.Pointer {
	if i := kernel.IndexByte(p, byte(value), n); i < n {
		return unsafe.Add(p, i)
	}
	return nil
}

// Move copies n bytes from src to dst and returns dst. The regions may
// overlap; the result equals copying through a temporary buffer.
//
// UB: src and dst must each be valid for n bytes.
func Move(dst, src unsafe.Pointer, n uintptr) unsafe.Pointer {
	if uintptr(dst) < uintptr(src) {
		kernel.CopyForward(dst, src, n)
	} else {
		kernel.CopyBackward(dst, src, n)
	}
	return dst
}
