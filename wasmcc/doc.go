// Package wasmcc implements the compiler Backend by hosting a wasm32
// build of the wrapped SPIRV-Cross wrapper inside a wazero runtime.
//
// The guest module needs the same sc_internal_* exports as a shared
// library build, plus malloc and free for boundary allocations, and is
// expected to be built against wasi-libc (WASI preview 1 imports are
// provided). Flat records are marshaled into guest linear memory with
// the fixed wasm32 layouts in encode.go.
//
// A Runtime serializes guest calls with a mutex: the guest instance is
// single-threaded even when sessions on top of it are not.
package wasmcc
