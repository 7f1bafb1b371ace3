package check

import (
	"bytes"
	"fmt"
	"strings"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hupe1980/memstr/cstr"
	"github.com/hupe1980/memstr/mem"
	"github.com/hupe1980/memstr/testutil"
)

// Violation reports a property that did not hold.
type Violation struct {
	Property string
	Input    string
	Diff     string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s violated for %s (-want +got):\n%s", v.Property, v.Input, v.Diff)
}

func violated(property, input string, want, got any) error {
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		return &Violation{Property: property, Input: input, Diff: diff}
	}
	return nil
}

func ptr(b []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b))
}

// Move checks that moving n bytes from src to dst inside buf gives the
// same result as copying through a temporary buffer. buf is not
// modified.
func Move(buf []byte, dst, src, n int) error {
	want := append([]byte(nil), buf...)
	tmp := append([]byte(nil), want[src:src+n]...)
	copy(want[dst:], tmp)

	got := append([]byte(nil), buf...)
	if n > 0 {
		mem.Move(unsafe.Add(ptr(got), dst), unsafe.Add(ptr(got), src), uintptr(n))
	}
	return violated("move", fmt.Sprintf("dst=%d src=%d n=%d", dst, src, n), want, got)
}

// Pad checks NCopy for a terminated src: the first min(Len(src), n)
// bytes are copied and the remaining bytes up to n are zero. Bytes past
// n are left untouched.
func Pad(src []byte, n int) error {
	l := bytes.IndexByte(src, 0)
	if l < 0 {
		return fmt.Errorf("pad: source is not terminated")
	}

	const guard = 0xA5
	got := bytes.Repeat([]byte{guard}, n+1)
	want := make([]byte, n+1)
	copy(want, src[:min(l, n)])
	want[n] = guard

	if n > 0 {
		cstr.NCopy(&got[0], &src[0], uintptr(n))
	}
	return violated("pad", fmt.Sprintf("src=%q n=%d", src[:l], n), want, got)
}

// Length checks Len and NLen against the index of the first terminator
// of s.
func Length(s []byte, n int) error {
	l := bytes.IndexByte(s, 0)
	if l < 0 {
		return fmt.Errorf("length: string is not terminated")
	}
	input := fmt.Sprintf("s=%q n=%d", s[:l], n)

	if err := violated("len", input, uintptr(l), cstr.Len(&s[0])); err != nil {
		return err
	}
	// NLen may read n bytes, so bound n by the buffer.
	n = min(n, len(s))
	var got uintptr
	if n > 0 {
		got = cstr.NLen(&s[0], uintptr(n))
	}
	return violated("nlen", input, uintptr(min(l, n)), got)
}

// RoundTrip checks that Copy followed by Compare reports equality for
// both byte regions and strings.
func RoundTrip(data []byte) error {
	input := fmt.Sprintf("len=%d", len(data))
	dst := make([]byte, len(data))
	if len(data) > 0 {
		mem.Copy(ptr(dst), ptr(data), uintptr(len(data)))
		if r := mem.Compare(ptr(dst), ptr(data), uintptr(len(data))); r != 0 {
			return violated("copy-compare", input, 0, r)
		}
	}
	if err := violated("copy", input, data, dst); err != nil {
		return err
	}

	// Cut at the first zero to form a string.
	s := append(data[:len(data):len(data)], 0)
	s = s[:bytes.IndexByte(s, 0)+1]
	sdst := make([]byte, len(s))
	cstr.Copy(&sdst[0], &s[0])
	if r := cstr.Compare(&sdst[0], &s[0]); r != 0 {
		return violated("strcpy-strcmp", input, 0, r)
	}
	return violated("strcpy", input, s, sdst)
}

// Compare checks mem.Compare against bytes.Compare over the common
// length of a and b, together with reflexivity and antisymmetry.
func Compare(a, b []byte) error {
	n := min(len(a), len(b))
	input := fmt.Sprintf("a=%x b=%x", a[:n], b[:n])
	if n == 0 {
		return nil
	}
	want := bytes.Compare(a[:n], b[:n])
	got := mem.Compare(ptr(a), ptr(b), uintptr(n))
	if err := violated("compare", input, want, got); err != nil {
		return err
	}
	if err := violated("compare-antisymmetry", input, -got, mem.Compare(ptr(b), ptr(a), uintptr(n))); err != nil {
		return err
	}
	return violated("compare-reflexive", input, 0, mem.Compare(ptr(a), ptr(a), uintptr(n)))
}

// Search checks Str, Chr and RChr against the strings package.
func Search(hay, needle string, c byte) error {
	input := fmt.Sprintf("hay=%q needle=%q c=%q", hay, needle, c)
	h := cstr.FromString(hay)
	nd := cstr.FromString(needle)

	if err := violated("strstr", input, strings.Index(hay, needle), index(h, cstr.Str(&h[0], &nd[0]))); err != nil {
		return err
	}
	wantChr, wantRChr := strings.IndexByte(hay, c), strings.LastIndexByte(hay, c)
	if c == 0 {
		wantChr, wantRChr = len(hay), len(hay)
	}
	if err := violated("strchr", input, wantChr, index(h, cstr.Chr(&h[0], int(c)))); err != nil {
		return err
	}
	return violated("strrchr", input, wantRChr, index(h, cstr.RChr(&h[0], int(c))))
}

func index(s []byte, p *byte) int {
	if p == nil {
		return -1
	}
	return int(uintptr(unsafe.Pointer(p)) - uintptr(ptr(s)))
}

// Round runs every property once on inputs drawn from rng. size bounds
// the generated buffers.
func Round(rng *testutil.RNG, size int) error {
	size = max(size, 1)

	buf := rng.Bytes(size)
	dst, src, n := rng.Overlap(size)
	if err := Move(buf, dst, src, n); err != nil {
		return err
	}

	s := rng.CString(rng.Intn(size), testutil.Alphanumeric)
	if err := Pad(s, rng.Intn(size+1)); err != nil {
		return err
	}
	if err := Length(s, rng.Intn(size+1)); err != nil {
		return err
	}
	if err := RoundTrip(rng.Bytes(rng.Intn(size + 1))); err != nil {
		return err
	}

	a := rng.Bytes(rng.Intn(size + 1))
	b := append([]byte(nil), a...)
	if len(b) > 0 && rng.Intn(2) == 0 {
		b[rng.Intn(len(b))] ^= byte(1 + rng.Intn(255))
	}
	if err := Compare(a, b); err != nil {
		return err
	}

	hay := string(rng.Text(rng.Intn(size), "ab"))
	needle := string(rng.Text(rng.Intn(4), "ab"))
	return Search(hay, needle, "ab\x00"[rng.Intn(3)])
}
