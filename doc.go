// Package memstr provides freestanding memory and NUL-terminated string
// primitives for Go.
//
// The library has two layers. The raw core lives in the mem and cstr
// packages: functions over unsafe.Pointer and *byte that trust the
// caller's bounds, never allocate, never lock, and treat misuse as
// undefined behavior. On top of it, Space is a bounds-checked facade
// over a flat address range that reports typed errors instead.
//
// # Raw Core
//
//	mem.Copy(dst, src, n)     // non-overlapping copy
//	mem.Set(dst, val, n)      // fill with the low 8 bits of val
//	mem.Compare(a, b, n)      // -1, 0, +1 on unsigned bytes
//	mem.Scan(p, val, n)       // first matching byte or nil
//	mem.Move(dst, src, n)     // overlap-safe copy
//
//	cstr.Len(s), cstr.NLen(s, n)
//	cstr.Copy(dst, src), cstr.NCopy(dst, src, n), cstr.Cat(dst, src)
//	cstr.Compare(a, b), cstr.NCompare(a, b, n)
//	cstr.Chr(s, c), cstr.RChr(s, c), cstr.Str(s, sub)
//
// # Address Spaces
//
//	space, _ := memstr.NewSpace(4096, memstr.WithBase(0x1000))
//	_ = space.WriteString(0x1000, "hello world")
//	at, ok, _ := space.Str(0x1000, 0x1100)   // 0x1006 once "world" sits at 0x1100
//	n, _ := space.Len(0x1000)                 // 11
//
// Space methods fail with *ErrOutOfBounds, *ErrUnterminated or ErrOverlap
// where the raw call would have been undefined.
//
// # Kernels
//
// The byte-memory primitives dispatch to one of three kernel tiers
// (generic, word, bulk) chosen at startup from CPU features. Set
// MEMSTR_KERNEL to force a tier.
//
// # WebAssembly
//
// Package wasmhost exports every primitive as a wazero host module so
// freestanding WebAssembly guests can import memcpy, strlen and friends.
package memstr
