// Package wasmhost exposes the memstr primitives to WebAssembly guests as
// a wazero host module.
//
// Guests built freestanding (no libc) typically import memcpy, memset and
// the string functions from the "env" module. Instantiate registers that
// module on a wazero runtime:
//
//	r := wazero.NewRuntime(ctx)
//	defer r.Close(ctx)
//
//	if _, err := wasmhost.Instantiate(ctx, r); err != nil {
//		return err
//	}
//	guest, err := r.Instantiate(ctx, wasmBytes)
//
// Every export takes and returns i32 values. Addresses are offsets into
// the calling module's linear memory and a null result is address 0.
// Calls that would leave linear memory trap instead of corrupting it.
package wasmhost
