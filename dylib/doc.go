// Package dylib implements the compiler Backend over a native shared
// library build of the wrapped SPIRV-Cross C wrapper, loaded at runtime
// with purego (no cgo).
//
// The library must export the sc_internal_* symbols of the wrapper; see
// Open. Available on darwin and linux; Open fails elsewhere.
package dylib
