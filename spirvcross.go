package spirvcross

import "fmt"

// Code is a result code reported by the wrapped native compiler.
type Code int32

const (
	CodeSuccess          Code = 0
	CodeCompilationError Code = 1
	CodeUnhandled        Code = 2
)

// String returns the code's wire name.
func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeCompilationError:
		return "compilation_error"
	case CodeUnhandled:
		return "unhandled"
	default:
		return fmt.Sprintf("code(%d)", int32(c))
	}
}

// Error implements error for non-success codes so backends can surface
// raw codes directly. CodeSuccess should never be returned as an error.
func (c Code) Error() string {
	return "native compiler: " + c.String()
}

// Handle is an opaque reference to one native compiler instance. A
// Handle is only meaningful to the Backend that produced it and must be
// passed back to that Backend's Release exactly once.
type Handle uintptr

// String is a string allocated by the native layer. The owner must copy
// the bytes it needs and then pass the String back to Backend.FreeString
// exactly once, including on decoding-failure paths.
type String interface {
	// Bytes returns the raw contents without the terminating NUL.
	// The slice is only valid until the string is freed.
	Bytes() []byte
}

// Backend is the boundary to a wrapped SPIRV-Cross MSL compiler build.
// Implementations own the foreign-function mechanics; callers own
// handle and string lifetimes.
//
// The record slices passed to Compile are borrowed for the duration of
// the call only and must not be retained by the implementation.
type Backend interface {
	// Construct parses a SPIR-V word stream into a new compiler
	// instance.
	Construct(words []uint32) (Handle, Code)

	// Configure submits the flat options record.
	Configure(h Handle, opts *MSLOptions) Code

	// Compile generates MSL source using the supplied override
	// records. The returned String is owned by the caller.
	Compile(h Handle, attrs []VertexAttr, bindings []ResourceBinding) (String, Code)

	// FreeString releases a String returned by Compile.
	FreeString(s String) Code

	// RasterizationDisabled reports the compiler's currently effective
	// rasterization-disabled flag.
	RasterizationDisabled(h Handle) (bool, Code)

	// Release destroys a compiler instance. Calling any other
	// operation with a released handle is undefined.
	Release(h Handle)

	// LastError returns the most recent native exception message, or
	// "" if none was recorded. Only meaningful immediately after an
	// operation returned CodeCompilationError.
	LastError() string
}
