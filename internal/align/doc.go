// Package align provides aligned backing allocation.
//
// # Aligned Allocation
//
// Provides 64-byte aligned buffers so that address spaces start on a
// cache line and every word kernel access of an aligned address is
// naturally aligned.
package align
