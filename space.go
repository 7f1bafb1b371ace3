package memstr

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/memstr/cstr"
	"github.com/hupe1980/memstr/internal/align"
	"github.com/hupe1980/memstr/internal/conv"
	"github.com/hupe1980/memstr/mem"
)

// Addr is an address inside a Space.
type Addr uint32

// maxSpan is the size of the 32-bit address range.
const maxSpan = 1 << 32

// Space is a flat byte region addressed from a base address, the way a
// kernel arena or a WebAssembly linear memory is addressed.
//
// Every primitive is available as a method. Methods validate that the
// underlying raw call stays inside the space and return an error instead
// of touching foreign memory: *ErrOutOfBounds for ranges that leave the
// space, *ErrUnterminated for strings that run into its end, and
// ErrOverlap for the copies that require disjoint regions.
//
// A Space holds no locks. Methods on disjoint ranges may run
// concurrently; methods writing a range others read must be
// synchronized by the caller.
type Space struct {
	buf    []byte
	base   Addr
	logger *Logger
}

// NewSpace allocates a zeroed, 64-byte aligned space of size bytes.
func NewSpace(size int, opts ...Option) (*Space, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSize, size)
	}
	if _, err := conv.IntToUint32(size); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	return newSpace(align.Alloc(size), opts)
}

// WrapSpace returns a space over buf. The space aliases buf; writes
// through either are visible through the other.
func WrapSpace(buf []byte, opts ...Option) (*Space, error) {
	return newSpace(buf, opts)
}

func newSpace(buf []byte, opts []Option) (*Space, error) {
	o := applyOptions(opts)

	n, err := conv.IntToUint32(len(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	if uint64(o.base)+uint64(n) > maxSpan {
		return nil, fmt.Errorf("%w: base %#x + %d bytes exceeds the address range", ErrInvalidSize, uint64(o.base), n)
	}

	return &Space{
		buf:    buf,
		base:   o.base,
		logger: o.logger,
	}, nil
}

// Base returns the address of the first byte.
func (s *Space) Base() Addr {
	return s.base
}

// Size returns the number of addressable bytes.
func (s *Space) Size() uint32 {
	return uint32(len(s.buf))
}

// Bytes returns the backing slice.
func (s *Space) Bytes() []byte {
	return s.buf
}

// Contains reports whether [addr, addr+n) lies inside the space.
func (s *Space) Contains(addr Addr, n uint32) bool {
	return addr >= s.base && uint64(addr-s.base)+uint64(n) <= uint64(len(s.buf))
}

// Read returns a view of n bytes at addr. The view aliases the space.
func (s *Space) Read(addr Addr, n uint32) ([]byte, error) {
	off, err := s.offset("read", addr, n)
	if err != nil {
		return nil, err
	}
	l, err := conv.Uint32ToInt(n)
	if err != nil {
		return nil, s.fail("read", addr, &ErrOutOfBounds{Op: "read", Addr: addr, Len: uint64(n), cause: err})
	}
	return s.buf[off : off+l : off+l], nil
}

// Write copies data to addr.
func (s *Space) Write(addr Addr, data []byte) error {
	n, err := conv.IntToUint32(len(data))
	if err != nil {
		return s.fail("write", addr, &ErrOutOfBounds{Op: "write", Addr: addr, Len: uint64(len(data)), cause: err})
	}
	off, err := s.offset("write", addr, n)
	if err != nil {
		return err
	}
	copy(s.buf[off:], data)
	return nil
}

// WriteString copies str and a terminator to addr.
func (s *Space) WriteString(addr Addr, str string) error {
	return s.Write(addr, cstr.FromString(str))
}

// String returns a copy of the terminated string at addr.
func (s *Space) String(addr Addr) (string, error) {
	off, n, err := s.terminated("string", addr)
	if err != nil {
		return "", err
	}
	return string(s.buf[off : off+int(n)]), nil
}

// ============================================================================
// Byte-memory primitives
// ============================================================================

// Copy copies n bytes from src to dst and returns dst. The two ranges
// must not overlap.
func (s *Space) Copy(dst, src Addr, n uint32) (Addr, error) {
	const op = "copy"
	d, err := s.offset(op, dst, n)
	if err != nil {
		return 0, err
	}
	o, err := s.offset(op, src, n)
	if err != nil {
		return 0, err
	}
	if overlaps(d, uint64(n), o, uint64(n)) {
		return 0, s.fail(op, dst, overlapError(op, dst, src))
	}
	if n > 0 {
		mem.Copy(s.ptr(d), s.ptr(o), uintptr(n))
	}
	return dst, nil
}

// Fill writes the low 8 bits of val into n bytes at dst and returns dst.
func (s *Space) Fill(dst Addr, val int, n uint32) (Addr, error) {
	const op = "fill"
	d, err := s.offset(op, dst, n)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		mem.Set(s.ptr(d), val, uintptr(n))
	}
	return dst, nil
}

// Compare compares n bytes at a and b as unsigned bytes and returns -1,
// 0 or +1.
func (s *Space) Compare(a, b Addr, n uint32) (int, error) {
	const op = "compare"
	x, err := s.offset(op, a, n)
	if err != nil {
		return 0, err
	}
	y, err := s.offset(op, b, n)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return mem.Compare(s.ptr(x), s.ptr(y), uintptr(n)), nil
}

// Scan returns the address of the first byte equal to the low 8 bits of
// value within n bytes at p. The bool is false if there is none.
func (s *Space) Scan(p Addr, value int, n uint32) (Addr, bool, error) {
	const op = "scan"
	off, err := s.offset(op, p, n)
	if err != nil || n == 0 {
		return 0, false, err
	}
	base := s.ptr(off)
	hit := mem.Scan(base, value, uintptr(n))
	if hit == nil {
		return 0, false, nil
	}
	return p + Addr(uintptr(hit)-uintptr(base)), true, nil
}

// Move copies n bytes from src to dst and returns dst. The ranges may
// overlap.
func (s *Space) Move(dst, src Addr, n uint32) (Addr, error) {
	const op = "move"
	d, err := s.offset(op, dst, n)
	if err != nil {
		return 0, err
	}
	o, err := s.offset(op, src, n)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		mem.Move(s.ptr(d), s.ptr(o), uintptr(n))
	}
	return dst, nil
}

// ============================================================================
// String primitives
// ============================================================================

// Len returns the length of the string at str.
func (s *Space) Len(str Addr) (uint32, error) {
	_, n, err := s.terminated("len", str)
	return n, err
}

// NLen returns the length of the string at str, examining at most n
// bytes. It returns n if none of them is the terminator.
func (s *Space) NLen(str Addr, n uint32) (uint32, error) {
	const op = "nlen"
	if n == 0 {
		_, err := s.offset(op, str, 0)
		return 0, err
	}
	off, err := s.offset(op, str, 1)
	if err != nil {
		return 0, err
	}
	bound := min(uintptr(n), s.remaining(off))
	l := cstr.NLen(s.bytePtr(off), bound)
	if l == bound && bound < uintptr(n) {
		return 0, s.fail(op, str, &ErrUnterminated{Op: op, Addr: str})
	}
	return uint32(l), nil
}

// StrCopy copies the string at src, terminator included, to dst and
// returns dst. The two ranges must not overlap.
func (s *Space) StrCopy(dst, src Addr) (Addr, error) {
	const op = "strcpy"
	o, l, err := s.terminated(op, src)
	if err != nil {
		return 0, err
	}
	d, err := s.offset(op, dst, l+1)
	if err != nil {
		return 0, err
	}
	if overlaps(d, uint64(l)+1, o, uint64(l)+1) {
		return 0, s.fail(op, dst, overlapError(op, dst, src))
	}
	cstr.Copy(s.bytePtr(d), s.bytePtr(o))
	return dst, nil
}

// StrNCopy copies at most n bytes of the string at src to dst, zero
// filling dst up to n bytes, and returns dst. If src has no terminator
// within n bytes, dst is left unterminated.
func (s *Space) StrNCopy(dst, src Addr, n uint32) (Addr, error) {
	const op = "strncpy"
	d, err := s.offset(op, dst, n)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return dst, nil
	}
	o, err := s.offset(op, src, 1)
	if err != nil {
		return 0, err
	}
	bound := min(uintptr(n), s.remaining(o))
	l := cstr.NLen(s.bytePtr(o), bound)
	if l == bound && bound < uintptr(n) {
		return 0, s.fail(op, src, &ErrUnterminated{Op: op, Addr: src})
	}
	read := min(uint64(l)+1, uint64(n))
	if overlaps(d, uint64(n), o, read) {
		return 0, s.fail(op, dst, overlapError(op, dst, src))
	}
	cstr.NCopy(s.bytePtr(d), s.bytePtr(o), uintptr(n))
	return dst, nil
}

// Cat appends the string at src to the string at dst and returns dst.
func (s *Space) Cat(dst, src Addr) (Addr, error) {
	const op = "strcat"
	d, dl, err := s.terminated(op, dst)
	if err != nil {
		return 0, err
	}
	o, sl, err := s.terminated(op, src)
	if err != nil {
		return 0, err
	}
	if _, err := s.offset(op, dst+Addr(dl), sl+1); err != nil {
		return 0, err
	}
	if overlaps(d, uint64(dl)+uint64(sl)+1, o, uint64(sl)+1) {
		return 0, s.fail(op, dst, overlapError(op, dst, src))
	}
	cstr.Cat(s.bytePtr(d), s.bytePtr(o))
	return dst, nil
}

// StrCompare compares the strings at a and b and returns -1, 0 or +1.
// The comparison must be decided before either string reaches the end of
// the space.
func (s *Space) StrCompare(a, b Addr) (int, error) {
	const op = "strcmp"
	x, err := s.offset(op, a, 1)
	if err != nil {
		return 0, err
	}
	y, err := s.offset(op, b, 1)
	if err != nil {
		return 0, err
	}
	return s.compareWithin(op, a, b, x, y, min(s.remaining(x), s.remaining(y)))
}

// StrNCompare compares at most n bytes of the strings at a and b.
func (s *Space) StrNCompare(a, b Addr, n uint32) (int, error) {
	const op = "strncmp"
	if n == 0 {
		if _, err := s.offset(op, a, 0); err != nil {
			return 0, err
		}
		_, err := s.offset(op, b, 0)
		return 0, err
	}
	x, err := s.offset(op, a, 1)
	if err != nil {
		return 0, err
	}
	y, err := s.offset(op, b, 1)
	if err != nil {
		return 0, err
	}
	limit := uintptr(n)
	bound := min(limit, s.remaining(x), s.remaining(y))
	if bound == limit {
		return cstr.NCompare(s.bytePtr(x), s.bytePtr(y), limit), nil
	}
	return s.compareWithin(op, a, b, x, y, bound)
}

// Chr returns the address of the first byte equal to byte(c) in the
// string at str. Chr(str, 0) finds the terminator.
func (s *Space) Chr(str Addr, c int) (Addr, bool, error) {
	off, _, err := s.terminated("strchr", str)
	if err != nil {
		return 0, false, err
	}
	return s.locate(off, cstr.Chr(s.bytePtr(off), c))
}

// RChr returns the address of the last byte equal to byte(c) in the
// string at str. RChr(str, 0) finds the terminator.
func (s *Space) RChr(str Addr, c int) (Addr, bool, error) {
	off, _, err := s.terminated("strrchr", str)
	if err != nil {
		return 0, false, err
	}
	return s.locate(off, cstr.RChr(s.bytePtr(off), c))
}

// Str returns the address of the first occurrence of the string at sub
// in the string at str, or str itself if sub is empty.
func (s *Space) Str(str, sub Addr) (Addr, bool, error) {
	const op = "strstr"
	off, _, err := s.terminated(op, str)
	if err != nil {
		return 0, false, err
	}
	o, _, err := s.terminated(op, sub)
	if err != nil {
		return 0, false, err
	}
	return s.locate(off, cstr.Str(s.bytePtr(off), s.bytePtr(o)))
}

// ============================================================================
// Bounds helpers
// ============================================================================

func (s *Space) fail(op string, addr Addr, err error) error {
	s.logger.WithOp(op).LogFault(addr, err)
	return err
}

// offset validates [addr, addr+n) and returns the index of addr in buf.
func (s *Space) offset(op string, addr Addr, n uint32) (int, error) {
	if !s.Contains(addr, n) {
		return 0, s.fail(op, addr, &ErrOutOfBounds{Op: op, Addr: addr, Len: uint64(n)})
	}
	return int(addr - s.base), nil
}

// terminated validates that a string starts at addr and ends inside the
// space. It returns the index and the length of the string.
func (s *Space) terminated(op string, addr Addr) (int, uint32, error) {
	off, err := s.offset(op, addr, 1)
	if err != nil {
		return 0, 0, err
	}
	rest := s.remaining(off)
	n := cstr.NLen(s.bytePtr(off), rest)
	if n == rest {
		return 0, 0, s.fail(op, addr, &ErrUnterminated{Op: op, Addr: addr})
	}
	l, err := conv.Uint64ToUint32(uint64(n))
	if err != nil {
		return 0, 0, s.fail(op, addr, &ErrOutOfBounds{Op: op, Addr: addr, Len: uint64(n), cause: err})
	}
	return off, l, nil
}

// compareWithin compares at most bound bytes, where bound is the distance
// to the end of the space for at least one of the strings.
func (s *Space) compareWithin(op string, a, b Addr, x, y int, bound uintptr) (int, error) {
	pa, pb := s.bytePtr(x), s.bytePtr(y)
	if r := cstr.NCompare(pa, pb, bound); r != 0 {
		return r, nil
	}
	if cstr.NLen(pa, bound) < bound {
		return 0, nil
	}
	// Equal up to the end of the space without a terminator.
	at := a
	if s.remaining(y) < s.remaining(x) {
		at = b
	}
	return 0, s.fail(op, at, &ErrUnterminated{Op: op, Addr: at})
}

func (s *Space) locate(off int, p *byte) (Addr, bool, error) {
	if p == nil {
		return 0, false, nil
	}
	delta := uintptr(unsafe.Pointer(p)) - uintptr(unsafe.Pointer(s.bytePtr(off)))
	return s.base + Addr(off) + Addr(delta), true, nil
}

func (s *Space) remaining(off int) uintptr {
	return uintptr(len(s.buf) - off)
}

func (s *Space) ptr(off int) unsafe.Pointer {
	return unsafe.Pointer(&s.buf[off])
}

func (s *Space) bytePtr(off int) *byte {
	return &s.buf[off]
}

func overlaps(a int, an uint64, b int, bn uint64) bool {
	return an > 0 && bn > 0 && uint64(a) < uint64(b)+bn && uint64(b) < uint64(a)+an
}
