package cstr

import "unsafe"

// FromString returns s as a terminated byte string. It allocates and is
// meant for facade and test code, not for the freestanding core.
func FromString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// GoString copies the terminated string at p into a Go string. A nil p
// yields "".
//
// UB: p must be terminated.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	return string(unsafe.Slice(p, Len(p)))
}

// BytePtr returns the address of the first byte of b, or nil if b has
// no backing array.
func BytePtr(b []byte) *byte {
	return unsafe.SliceData(b)
}
