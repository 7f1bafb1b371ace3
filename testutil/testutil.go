package testutil

import (
	"math/rand"
	"sync"
	"testing"
	"unsafe"

	"github.com/hupe1980/memstr/internal/kernel"
)

// Alphanumeric is the default alphabet for generated strings.
const Alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// FillBytes fills dst with arbitrary bytes, zero included.
// Locks only once per call.
func (r *RNG) FillBytes(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = byte(r.rand.Intn(256))
	}
}

// Bytes returns n arbitrary bytes.
func (r *RNG) Bytes(n int) []byte {
	b := make([]byte, n)
	r.FillBytes(b)
	return b
}

// Text returns n bytes drawn from alphabet. An empty alphabet means
// every non-zero byte value. The result never contains a terminator.
func (r *RNG) Text(n int, alphabet string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := make([]byte, n)
	for i := range b {
		if alphabet == "" {
			b[i] = byte(1 + r.rand.Intn(255))
		} else {
			b[i] = alphabet[r.rand.Intn(len(alphabet))]
		}
	}
	return b
}

// CString returns Text(n, alphabet) followed by a terminator.
func (r *RNG) CString(n int, alphabet string) []byte {
	return append(r.Text(n, alphabet), 0)
}

// Overlap picks a destination offset, a source offset and a length for a
// move inside a buffer of the given size. Both ranges fit the buffer and
// overlap at least half of the time.
func (r *RNG) Overlap(size int) (dst, src, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if size <= 0 {
		return 0, 0, 0
	}
	src = r.rand.Intn(size)
	if r.rand.Intn(2) == 0 {
		// Keep the two offsets within a short distance.
		delta := r.rand.Intn(9) - 4
		dst = min(max(src+delta, 0), size-1)
	} else {
		dst = r.rand.Intn(size)
	}
	n = r.rand.Intn(size - max(dst, src) + 1)
	return dst, src, n
}

// PeriodicText returns n bytes repeating the first period letters of
// the alphabet "ab...". Periodic haystacks produce many partial matches
// in substring searches.
func PeriodicText(n, period int) []byte {
	period = min(max(period, 1), 26)
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a' + byte(i%period)
	}
	return b
}

// Ptr returns the address of the first byte of b, or nil for an empty
// slice with no backing array.
func Ptr(b []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b))
}

// BytePtr returns the address of the first byte of b as a *byte.
func BytePtr(b []byte) *byte {
	return unsafe.SliceData(b)
}

// Offset returns p - base in bytes.
func Offset(base, p unsafe.Pointer) int {
	return int(uintptr(p) - uintptr(base))
}

// ForEachTier runs fn as a subtest once per available kernel tier and
// restores the previously active tier when t finishes.
func ForEachTier(t *testing.T, fn func(t *testing.T)) {
	t.Helper()

	prev := kernel.ActiveTier()
	t.Cleanup(func() { kernel.Select(prev) })

	for _, tier := range []kernel.Tier{kernel.Generic, kernel.Word, kernel.Bulk} {
		if !kernel.Available(tier) {
			continue
		}
		t.Run(tier.String(), func(t *testing.T) {
			kernel.Select(tier)
			fn(t)
		})
	}
}
