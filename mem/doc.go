// Package mem provides the raw byte-memory primitives: Copy, Set,
// Compare, Scan and Move.
//
// Regions are passed as an unsafe.Pointer and an explicit byte count.
// Nothing here allocates, locks or checks bounds: a region shorter than
// claimed, or overlapping regions passed to Copy, is undefined behavior.
// The bounds-checked equivalents live on memstr.Space.
//
// Copy may transfer in whichever order the active kernel prefers. Move
// copies forward when dst < src and backward otherwise.
//
// Concurrent calls on disjoint regions are safe. Calls that touch the
// same region from several goroutines need external synchronization.
package mem
