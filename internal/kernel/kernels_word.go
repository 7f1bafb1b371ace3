package kernel

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

// Word kernels move and inspect eight bytes per step. Words are decoded
// little-endian on every platform so byte i of a window always sits at
// bits 8i..8i+7. Tails never form a pointer past the end of a region.

const (
	wordSize  = 8
	blockSize = 4 * wordSize

	lsbs = 0x0101010101010101
	msbs = 0x8080808080808080
)

func window(p unsafe.Pointer, off uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(p, off)), wordSize)
}

func load64(p unsafe.Pointer, off uintptr) uint64 {
	return binary.LittleEndian.Uint64(window(p, off))
}

func store64(p unsafe.Pointer, off uintptr, v uint64) {
	binary.LittleEndian.PutUint64(window(p, off), v)
}

// copyForwardWord reads each block fully before writing it, so a
// destination below the source never clobbers unread bytes.
func copyForwardWord(dst, src unsafe.Pointer, n uintptr) {
	i := uintptr(0)
	for ; i+blockSize <= n; i += blockSize {
		w0 := load64(src, i)
		w1 := load64(src, i+8)
		w2 := load64(src, i+16)
		w3 := load64(src, i+24)
		store64(dst, i, w0)
		store64(dst, i+8, w1)
		store64(dst, i+16, w2)
		store64(dst, i+24, w3)
	}
	for ; i+wordSize <= n; i += wordSize {
		store64(dst, i, load64(src, i))
	}
	if i < n {
		copyForwardGeneric(unsafe.Add(dst, i), unsafe.Add(src, i), n-i)
	}
}

func copyBackwardWord(dst, src unsafe.Pointer, n uintptr) {
	i := n
	for ; i >= blockSize; i -= blockSize {
		w0 := load64(src, i-32)
		w1 := load64(src, i-24)
		w2 := load64(src, i-16)
		w3 := load64(src, i-8)
		store64(dst, i-32, w0)
		store64(dst, i-24, w1)
		store64(dst, i-16, w2)
		store64(dst, i-8, w3)
	}
	for ; i >= wordSize; i -= wordSize {
		store64(dst, i-8, load64(src, i-8))
	}
	copyBackwardGeneric(dst, src, i)
}

func fillWord(dst unsafe.Pointer, c byte, n uintptr) {
	pattern := uint64(c) * lsbs
	i := uintptr(0)
	for ; i+blockSize <= n; i += blockSize {
		store64(dst, i, pattern)
		store64(dst, i+8, pattern)
		store64(dst, i+16, pattern)
		store64(dst, i+24, pattern)
	}
	for ; i+wordSize <= n; i += wordSize {
		store64(dst, i, pattern)
	}
	if i < n {
		fillGeneric(unsafe.Add(dst, i), c, n-i)
	}
}

func compareWord(a, b unsafe.Pointer, n uintptr) int {
	i := uintptr(0)
	for ; i+wordSize <= n; i += wordSize {
		x, y := load64(a, i), load64(b, i)
		if x != y {
			// Lowest differing bit belongs to the first differing byte.
			shift := uint(bits.TrailingZeros64(x^y)) &^ 7
			if byte(x>>shift) < byte(y>>shift) {
				return -1
			}
			return 1
		}
	}
	if i == n {
		return 0
	}
	return compareGeneric(unsafe.Add(a, i), unsafe.Add(b, i), n-i)
}

func indexByteWord(p unsafe.Pointer, c byte, n uintptr) uintptr {
	pattern := uint64(c) * lsbs
	i := uintptr(0)
	for ; i+wordSize <= n; i += wordSize {
		v := load64(p, i) ^ pattern
		// Borrows only produce false positives above a real zero byte,
		// so the lowest flagged byte is exact.
		if m := (v - lsbs) &^ v & msbs; m != 0 {
			return i + uintptr(bits.TrailingZeros64(m)>>3)
		}
	}
	if i == n {
		return n
	}
	return i + indexByteGeneric(unsafe.Add(p, i), c, n-i)
}
