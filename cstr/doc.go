// Package cstr provides the raw NUL-terminated string primitives.
//
// A string is a *byte pointing at a byte sequence that ends with one
// terminator byte (0). Length results never count the terminator; the
// copy and concatenate operations always carry it into the destination.
//
// Like package mem, nothing here allocates or checks bounds, and a
// missing terminator is undefined behavior. The bounded variants (NLen,
// NCopy, NCompare) cap the number of bytes examined and are the ones to
// use on untrusted input. Searches for byte 0 find the terminator.
//
// FromString, GoString and BytePtr bridge to Go strings and slices.
// FromString and GoString allocate.
package cstr
