package dylib

import (
	"runtime"
	"unsafe"

	"github.com/gogpu/spirvcross"
)

// Library is a Backend backed by a loaded shared library. All calls go
// straight through to the native exports; Library itself holds no
// per-compiler state.
type Library struct {
	mslNew             func(out *uintptr, words *uint32, count uintptr) int32
	mslSetOptions      func(h uintptr, opts *spirvcross.MSLOptions) int32
	mslCompile         func(h uintptr, out *uintptr, attrs *spirvcross.VertexAttr, attrCount uintptr, bindings *spirvcross.ResourceBinding, bindingCount uintptr) int32
	baseRelease        func(h uintptr) int32
	freePointer        func(p uintptr) int32
	rasterDisabled     func(h uintptr, out *bool) int32
	latestExceptionMsg func(out *uintptr) int32
}

// nativeString is an owned C string living in native memory.
type nativeString struct {
	lib *Library
	ptr uintptr
}

// Bytes copies the string contents out of native memory.
func (s *nativeString) Bytes() []byte {
	return cBytes(s.ptr)
}

// Construct implements spirvcross.Backend.
func (l *Library) Construct(words []uint32) (spirvcross.Handle, spirvcross.Code) {
	var h uintptr
	var head *uint32
	if len(words) > 0 {
		head = &words[0]
	}
	code := l.mslNew(&h, head, uintptr(len(words)))
	runtime.KeepAlive(words)
	return spirvcross.Handle(h), spirvcross.Code(code)
}

// Configure implements spirvcross.Backend.
func (l *Library) Configure(h spirvcross.Handle, opts *spirvcross.MSLOptions) spirvcross.Code {
	code := l.mslSetOptions(uintptr(h), opts)
	runtime.KeepAlive(opts)
	return spirvcross.Code(code)
}

// Compile implements spirvcross.Backend. The override slices are only
// borrowed for the duration of the native call.
func (l *Library) Compile(h spirvcross.Handle, attrs []spirvcross.VertexAttr, bindings []spirvcross.ResourceBinding) (spirvcross.String, spirvcross.Code) {
	var out uintptr
	var attrHead *spirvcross.VertexAttr
	if len(attrs) > 0 {
		attrHead = &attrs[0]
	}
	var bindingHead *spirvcross.ResourceBinding
	if len(bindings) > 0 {
		bindingHead = &bindings[0]
	}

	code := l.mslCompile(uintptr(h), &out, attrHead, uintptr(len(attrs)), bindingHead, uintptr(len(bindings)))
	runtime.KeepAlive(attrs)
	runtime.KeepAlive(bindings)

	if spirvcross.Code(code) != spirvcross.CodeSuccess {
		return nil, spirvcross.Code(code)
	}
	return &nativeString{lib: l, ptr: out}, spirvcross.CodeSuccess
}

// FreeString implements spirvcross.Backend.
func (l *Library) FreeString(s spirvcross.String) spirvcross.Code {
	ns, ok := s.(*nativeString)
	if !ok || ns.lib != l {
		return spirvcross.CodeUnhandled
	}
	code := spirvcross.Code(l.freePointer(ns.ptr))
	ns.ptr = 0
	return code
}

// RasterizationDisabled implements spirvcross.Backend.
func (l *Library) RasterizationDisabled(h spirvcross.Handle) (bool, spirvcross.Code) {
	var disabled bool
	code := l.rasterDisabled(uintptr(h), &disabled)
	return disabled, spirvcross.Code(code)
}

// Release implements spirvcross.Backend.
func (l *Library) Release(h spirvcross.Handle) {
	l.baseRelease(uintptr(h))
}

// LastError implements spirvcross.Backend. The wrapper allocates the
// message; it is copied and freed here.
func (l *Library) LastError() string {
	var ptr uintptr
	if code := l.latestExceptionMsg(&ptr); spirvcross.Code(code) != spirvcross.CodeSuccess || ptr == 0 {
		return ""
	}
	msg := string(cBytes(ptr))
	l.freePointer(ptr)
	return msg
}

// cBytes copies a NUL-terminated native string into Go memory.
func cBytes(ptr uintptr) []byte {
	if ptr == 0 {
		return nil
	}
	var out []byte
	for i := uintptr(0); ; i++ {
		b := *(*byte)(unsafe.Pointer(ptr + i))
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return out
}
