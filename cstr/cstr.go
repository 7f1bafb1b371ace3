package cstr

import (
	"unsafe"

	"github.com/hupe1980/memstr/mem"
)

func at(s *byte, i uintptr) *byte {
	return (*byte)(unsafe.Add(unsafe.Pointer(s), i))
}

// Len returns the number of bytes before the terminator of s.
//
// UB: s must be terminated within addressable memory.
func Len(s *byte) uintptr {
	var n uintptr
	for *at(s, n) != 0 {
		n++
	}
	return n
}

// NLen returns the number of bytes before the terminator of s, but
// examines at most n bytes and returns n if none of them is the
// terminator.
//
// UB: s must be valid for min(n, Len(s)+1) bytes.
func NLen(s *byte, n uintptr) uintptr {
	var i uintptr
	for i < n && *at(s, i) != 0 {
		i++
	}
	return i
}

// Copy copies src, terminator included, to dst and returns dst.
//
// UB: src must be terminated, dst must hold Len(src)+1 bytes and the
// two must not overlap.
func Copy(dst, src *byte) *byte {
	for i := uintptr(0); ; i++ {
		c := *at(src, i)
		*at(dst, i) = c
		if c == 0 {
			return dst
		}
	}
}

// NCopy copies at most n bytes of src to dst and returns dst. If src
// ends before n bytes, the rest of dst up to n bytes is zero-filled. If
// src has no terminator within n bytes, dst is left unterminated.
//
// UB: dst must be valid for n bytes, src must be valid up to its
// terminator or n bytes, and the two must not overlap.
func NCopy(dst, src *byte, n uintptr) *byte {
	var i uintptr
	for ; i < n; i++ {
		c := *at(src, i)
		if c == 0 {
			break
		}
		*at(dst, i) = c
	}
	if i < n {
		mem.Set(unsafe.Pointer(at(dst, i)), 0, n-i)
	}
	return dst
}

// Cat appends src, terminator included, at the terminator of dst and
// returns dst.
//
// UB: both strings must be terminated, dst must hold
// Len(dst)+Len(src)+1 bytes and the strings must not overlap.
func Cat(dst, src *byte) *byte {
	Copy(at(dst, Len(dst)), src)
	return dst
}

// Compare compares a and b bytewise as unsigned bytes and returns -1, 0
// or +1. The terminator takes part in the comparison, so a proper prefix
// compares less.
//
// UB: both strings must be terminated.
func Compare(a, b *byte) int {
	for i := uintptr(0); ; i++ {
		x, y := *at(a, i), *at(b, i)
		if x != y {
			return sign(x, y)
		}
		if x == 0 {
			return 0
		}
	}
}

// NCompare is Compare limited to the first n bytes. Strings that agree on
// n bytes compare equal whatever follows.
//
// UB: both strings must be valid up to their terminator or n bytes.
func NCompare(a, b *byte, n uintptr) int {
	for i := uintptr(0); i < n; i++ {
		x, y := *at(a, i), *at(b, i)
		if x != y {
			return sign(x, y)
		}
		if x == 0 {
			return 0
		}
	}
	return 0
}

func sign(x, y byte) int {
	if x < y {
		return -1
	}
	return 1
}

// Chr returns the address of the first byte of s equal to byte(c), or
// nil. The terminator is searchable: Chr(s, 0) returns the address of
// the terminator.
//
// UB: s must be terminated.
func Chr(s *byte, c int) *byte {
	b := byte(c)
	for i := uintptr(0); ; i++ {
		p := at(s, i)
		if *p == b {
			return p
		}
		if *p == 0 {
			return nil
		}
	}
}

// RChr returns the address of the last byte of s equal to byte(c), or
// nil. RChr(s, 0) returns the address of the terminator.
//
// UB: s must be terminated.
func RChr(s *byte, c int) *byte {
	b := byte(c)
	var last *byte
	for i := uintptr(0); ; i++ {
		p := at(s, i)
		if *p == b {
			last = p
		}
		if *p == 0 {
			return last
		}
	}
}

// Str returns the address of the first occurrence of sub in s, s itself
// if sub is empty, or nil. The search never reads past the terminator of
// s: once the rest of s is shorter than sub it stops.
//
// UB: both strings must be terminated.
func Str(s, sub *byte) *byte {
	if *sub == 0 {
		return s
	}
	for i := uintptr(0); *at(s, i) != 0; i++ {
		j := uintptr(0)
		for {
			want := *at(sub, j)
			if want == 0 {
				return at(s, i)
			}
			got := *at(s, i+j)
			if got == 0 {
				// Remaining text is shorter than sub.
				return nil
			}
			if got != want {
				break
			}
			j++
		}
	}
	return nil
}
