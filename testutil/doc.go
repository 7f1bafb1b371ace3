// Package testutil provides testing utilities for memstr.
//
// This package is intended for use in tests, benchmarks and the stress
// command. It provides a seeded RNG with byte and C-string generators,
// pointer helpers for handing Go buffers to the raw primitives, and a
// runner that repeats a test for every available kernel tier.
//
// # Random Buffers
//
//	rng := testutil.NewRNG(seed)
//	buf := rng.Bytes(64)           // arbitrary bytes, zeros included
//	s := rng.CString(10, "abc")    // 10 bytes from the alphabet + terminator
//	dst, src, n := rng.Overlap(64) // overlapping move within 64 bytes
//
// # Kernel Tiers
//
//	testutil.ForEachTier(t, func(t *testing.T) { ... })
package testutil
