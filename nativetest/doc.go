// Package nativetest provides an in-memory Backend that mimics the
// wrapped compiler's boundary contract without a native build.
//
// It validates the SPIR-V header at construct time, records the last
// configured options, and renders a deterministic MSL-shaped preamble
// at compile time. Allocation counters expose string and handle
// lifetimes so tests can assert exactly-once release behavior, and
// failure-injection knobs drive the error paths.
package nativetest
