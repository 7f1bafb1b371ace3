package mem

import (
	"bytes"
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memstr/testutil"
)

func TestCopy(t *testing.T) {
	testutil.ForEachTier(t, func(t *testing.T) {
		rng := testutil.NewRNG(1)
		for _, n := range []int{0, 1, 3, 8, 15, 64, 1000} {
			src := rng.Bytes(n)
			dst := make([]byte, n+1)
			dst[n] = 0xEE

			got := Copy(testutil.Ptr(dst), testutil.Ptr(src), uintptr(n))

			assert.Equal(t, testutil.Ptr(dst), got, "returns dst")
			assert.Equal(t, src, dst[:n])
			assert.Equal(t, byte(0xEE), dst[n], "byte past count untouched")
		}
	})
}

func TestSet(t *testing.T) {
	testutil.ForEachTier(t, func(t *testing.T) {
		t.Run("low 8 bits", func(t *testing.T) {
			dst := make([]byte, 10)
			got := Set(testutil.Ptr(dst), 0x1234, 9)

			assert.Equal(t, testutil.Ptr(dst), got)
			assert.Equal(t, bytes.Repeat([]byte{0x34}, 9), dst[:9])
			assert.Equal(t, byte(0), dst[9])
		})

		t.Run("negative value", func(t *testing.T) {
			dst := make([]byte, 4)
			Set(testutil.Ptr(dst), -1, 4)
			assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, dst)
		})

		t.Run("zero count", func(t *testing.T) {
			dst := []byte{1, 2, 3}
			Set(testutil.Ptr(dst), 0, 0)
			assert.Equal(t, []byte{1, 2, 3}, dst)
		})
	})
}

func TestCompare(t *testing.T) {
	testutil.ForEachTier(t, func(t *testing.T) {
		abc, abd := []byte("abc"), []byte("abd")
		assert.Negative(t, Compare(testutil.Ptr(abc), testutil.Ptr(abd), 3))
		assert.Positive(t, Compare(testutil.Ptr(abd), testutil.Ptr(abc), 3))
		assert.Zero(t, Compare(testutil.Ptr(abc), testutil.Ptr(abd), 2))
		assert.Zero(t, Compare(nil, nil, 0))

		hi, lo := []byte{0x80}, []byte{0x7F}
		assert.Positive(t, Compare(testutil.Ptr(hi), testutil.Ptr(lo), 1), "bytes compare unsigned")
	})
}

func TestCompareEqualityLaw(t *testing.T) {
	testutil.ForEachTier(t, func(t *testing.T) {
		rng := testutil.NewRNG(7)
		for iter := 0; iter < 500; iter++ {
			n := rng.Intn(80)
			a := rng.Bytes(n)
			b := append([]byte(nil), a...)
			if n > 0 && rng.Intn(2) == 0 {
				b[rng.Intn(n)] ^= byte(1 + rng.Intn(255))
			}

			got := Compare(testutil.Ptr(a), testutil.Ptr(b), uintptr(n))
			require.Equal(t, bytes.Equal(a, b), got == 0, "n=%d", n)
			require.Equal(t, bytes.Compare(a, b), got, "n=%d", n)
		}
	})
}

func TestScan(t *testing.T) {
	testutil.ForEachTier(t, func(t *testing.T) {
		buf := []byte("hello, world")
		base := testutil.Ptr(buf)

		assert.Equal(t, unsafe.Add(base, 4), Scan(base, 'o', uintptr(len(buf))))
		assert.Equal(t, unsafe.Add(base, 5), Scan(base, ',', uintptr(len(buf))))
		assert.Nil(t, Scan(base, 'z', uintptr(len(buf))))
		assert.Nil(t, Scan(base, 'w', 7), "match beyond count")
		assert.Equal(t, unsafe.Add(base, 7), Scan(base, 'w', 8))
		assert.Equal(t, unsafe.Add(base, 1), Scan(base, 0x100|'e', uintptr(len(buf))), "low 8 bits")
		assert.Nil(t, Scan(base, 'h', 0))
	})
}

func TestMove(t *testing.T) {
	testutil.ForEachTier(t, func(t *testing.T) {
		t.Run("forward overlap", func(t *testing.T) {
			buf := []byte("0123456789")
			got := Move(testutil.Ptr(buf), unsafe.Add(testutil.Ptr(buf), 2), 6)
			assert.Equal(t, testutil.Ptr(buf), got)
			assert.Equal(t, "2345676789", string(buf))
		})

		t.Run("backward overlap", func(t *testing.T) {
			buf := []byte("0123456789")
			Move(unsafe.Add(testutil.Ptr(buf), 2), testutil.Ptr(buf), 6)
			assert.Equal(t, "0101234589", string(buf))
		})

		t.Run("same address", func(t *testing.T) {
			buf := []byte("abcdef")
			Move(testutil.Ptr(buf), testutil.Ptr(buf), 6)
			assert.Equal(t, "abcdef", string(buf))
		})
	})
}

func TestMoveMatchesTemporaryBuffer(t *testing.T) {
	testutil.ForEachTier(t, func(t *testing.T) {
		rng := testutil.NewRNG(42)
		for iter := 0; iter < 1000; iter++ {
			size := 1 + rng.Intn(200)
			buf := rng.Bytes(size)
			dst, src, n := rng.Overlap(size)

			tmp := append([]byte(nil), buf[src:src+n]...)
			want := append([]byte(nil), buf...)
			copy(want[dst:], tmp)

			base := testutil.Ptr(buf)
			Move(unsafe.Add(base, dst), unsafe.Add(base, src), uintptr(n))
			require.Equal(t, want, buf, "size=%d dst=%d src=%d n=%d", size, dst, src, n)
		}
	})
}

func BenchmarkCopy(b *testing.B) {
	for _, size := range []int{16, 256, 4096, 65536} {
		src := make([]byte, size)
		dst := make([]byte, size)
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Copy(testutil.Ptr(dst), testutil.Ptr(src), uintptr(size))
			}
		})
	}
}

func BenchmarkMove(b *testing.B) {
	for _, size := range []int{16, 256, 4096, 65536} {
		buf := make([]byte, size+1)
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Move(unsafe.Add(testutil.Ptr(buf), 1), testutil.Ptr(buf), uintptr(size))
			}
		})
	}
}
