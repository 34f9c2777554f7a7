// Package errors defines the structured error types surfaced by the
// cross-compiler wrapper.
//
// Every failure carries the stage it occurred in (construct, configure,
// compile, query), a kind categorizing it, and, when the native layer
// reported one, the raw native result code, so callers can diagnose
// without string matching.
package errors
