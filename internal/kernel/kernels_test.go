package kernel

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tiers = []Tier{Generic, Word, Bulk}

// forEachTier runs fn once per available tier and restores the
// previously active tier afterwards.
func forEachTier(t *testing.T, fn func(t *testing.T)) {
	prev := ActiveTier()
	t.Cleanup(func() { install(prev) })

	for _, tier := range tiers {
		if !Available(tier) {
			continue
		}
		t.Run(tier.String(), func(t *testing.T) {
			install(tier)
			require.Equal(t, tier, ActiveTier())
			fn(t)
		})
	}
}

func ptr(b []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b))
}

func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

func TestTierString(t *testing.T) {
	for _, tier := range tiers {
		parsed, ok := ParseTier(tier.String())
		assert.True(t, ok)
		assert.Equal(t, tier, parsed)
	}
	assert.Equal(t, "unknown", Tier(42).String())

	parsed, ok := ParseTier("  WORD ")
	assert.True(t, ok)
	assert.Equal(t, Word, parsed)

	_, ok = ParseTier("avx9000")
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	prev := ActiveTier()
	t.Cleanup(func() { install(prev) })

	assert.True(t, Select(Generic))
	assert.Equal(t, Generic, ActiveTier())
	assert.False(t, Select(Tier(42)))
	assert.Equal(t, Generic, ActiveTier())
	assert.True(t, Available(Generic))
}

func TestCopyForward(t *testing.T) {
	forEachTier(t, func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		for _, n := range []int{0, 1, 7, 8, 9, 31, 32, 33, 100, 257} {
			src := randomBytes(rng, n)
			dst := make([]byte, n)
			CopyForward(ptr(dst), ptr(src), uintptr(n))
			assert.Equal(t, src, dst, "n=%d", n)
		}
	})
}

func TestCopyBackward(t *testing.T) {
	forEachTier(t, func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		for _, n := range []int{0, 1, 7, 8, 9, 31, 32, 33, 100, 257} {
			src := randomBytes(rng, n)
			dst := make([]byte, n)
			CopyBackward(ptr(dst), ptr(src), uintptr(n))
			assert.Equal(t, src, dst, "n=%d", n)
		}
	})
}

func TestCopyOverlap(t *testing.T) {
	forEachTier(t, func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		for iter := 0; iter < 200; iter++ {
			size := 1 + rng.Intn(160)
			buf := randomBytes(rng, size)
			a, b := rng.Intn(size), rng.Intn(size)
			n := rng.Intn(size - max(a, b) + 1)

			want := append([]byte(nil), buf...)
			copy(want[a:a+n], append([]byte(nil), buf[b:b+n]...))

			dst := unsafe.Add(ptr(buf), a)
			src := unsafe.Add(ptr(buf), b)
			if a < b {
				CopyForward(dst, src, uintptr(n))
			} else {
				CopyBackward(dst, src, uintptr(n))
			}
			require.Equal(t, want, buf, "dst=%d src=%d n=%d", a, b, n)
		}
	})
}

func TestFill(t *testing.T) {
	forEachTier(t, func(t *testing.T) {
		for _, n := range []int{0, 1, 7, 8, 9, 31, 32, 33, 100, 257} {
			buf := make([]byte, n+2)
			Fill(unsafe.Add(ptr(buf), 1), 0xAB, uintptr(n))

			assert.Equal(t, byte(0), buf[0], "n=%d", n)
			assert.Equal(t, byte(0), buf[n+1], "n=%d", n)
			assert.Equal(t, bytes.Repeat([]byte{0xAB}, n), buf[1:n+1], "n=%d", n)
		}
	})
}

func TestCompare(t *testing.T) {
	forEachTier(t, func(t *testing.T) {
		for _, n := range []int{1, 7, 8, 9, 31, 32, 33, 100} {
			for pos := 0; pos < n; pos++ {
				a := bytes.Repeat([]byte{0x40}, n)
				b := bytes.Repeat([]byte{0x40}, n)
				b[pos] = 0xC0

				assert.Equal(t, -1, Compare(ptr(a), ptr(b), uintptr(n)), "n=%d pos=%d", n, pos)
				assert.Equal(t, 1, Compare(ptr(b), ptr(a), uintptr(n)), "n=%d pos=%d", n, pos)
				assert.Equal(t, 0, Compare(ptr(a), ptr(b), uintptr(pos)), "n=%d pos=%d", n, pos)
			}
		}
	})
}

func TestCompareUnsigned(t *testing.T) {
	forEachTier(t, func(t *testing.T) {
		a := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x7F, 0x00}
		b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x80, 0x00}
		assert.Equal(t, -1, Compare(ptr(a), ptr(b), uintptr(len(a))))
	})
}

func TestCompareFirstMismatchWins(t *testing.T) {
	forEachTier(t, func(t *testing.T) {
		// Later bytes point the other way; only the first mismatch counts.
		a := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0xFF, 0xFF}
		b := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0x00, 0x00}
		assert.Equal(t, -1, Compare(ptr(a), ptr(b), uintptr(len(a))))
	})
}

func TestIndexByte(t *testing.T) {
	forEachTier(t, func(t *testing.T) {
		for _, n := range []int{1, 7, 8, 9, 31, 32, 33, 100} {
			for pos := 0; pos < n; pos++ {
				buf := bytes.Repeat([]byte{'x'}, n)
				buf[pos] = 'y'
				assert.Equal(t, uintptr(pos), IndexByte(ptr(buf), 'y', uintptr(n)), "n=%d pos=%d", n, pos)
				assert.Equal(t, uintptr(pos), IndexByte(ptr(buf), 'y', uintptr(pos)), "limit excludes match")
			}
		}
	})
}

func TestIndexByteZeroAndHighBytes(t *testing.T) {
	forEachTier(t, func(t *testing.T) {
		buf := []byte{0x81, 0x80, 0xFF, 0x01, 0x00, 0x80, 0x00, 0x01, 0x02, 0x00}
		assert.Equal(t, uintptr(4), IndexByte(ptr(buf), 0x00, uintptr(len(buf))))
		assert.Equal(t, uintptr(1), IndexByte(ptr(buf), 0x80, uintptr(len(buf))))
		assert.Equal(t, uintptr(2), IndexByte(ptr(buf), 0xFF, uintptr(len(buf))))
		assert.Equal(t, uintptr(len(buf)), IndexByte(ptr(buf), 0x7F, uintptr(len(buf))))
	})
}

func TestIndexByteStopsAtLimit(t *testing.T) {
	forEachTier(t, func(t *testing.T) {
		// The match sits right after the limit inside the same word.
		buf := []byte("abcdefgZ")
		assert.Equal(t, uintptr(5), IndexByte(ptr(buf), 'Z', 5))
		assert.Equal(t, uintptr(0), IndexByte(nil, 'Z', 0))
	})
}

func BenchmarkKernels(b *testing.B) {
	prev := ActiveTier()
	b.Cleanup(func() { install(prev) })

	for _, tier := range tiers {
		if !Available(tier) {
			continue
		}
		for _, size := range []int{64, 4096} {
			src := make([]byte, size)
			dst := make([]byte, size)
			b.Run(fmt.Sprintf("%s/copy/size=%d", tier, size), func(b *testing.B) {
				install(tier)
				b.SetBytes(int64(size))
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					CopyForward(ptr(dst), ptr(src), uintptr(size))
				}
			})
			b.Run(fmt.Sprintf("%s/index/size=%d", tier, size), func(b *testing.B) {
				install(tier)
				b.SetBytes(int64(size))
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					_ = IndexByte(ptr(src), 1, uintptr(size))
				}
			})
		}
	}
}
