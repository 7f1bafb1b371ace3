// Package kernel provides the byte kernels behind the mem and cstr
// primitives.
//
// # Tiers
//
//   - Generic: byte-at-a-time loops, usable on any target
//   - Word: 64-bit word-at-a-time loops (SWAR)
//   - Bulk: the Go runtime's vectorized copy and search routines
//
// Runtime CPU feature detection selects the fastest available tier.
// Set MEMSTR_KERNEL=generic|word|bulk to force one.
//
// # Operations
//
//   - Transfer: CopyForward, CopyBackward
//   - Fill
//   - Inspection: Compare, IndexByte
package kernel
