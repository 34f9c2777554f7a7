package errors

import (
	"strings"

	"github.com/gogpu/spirvcross"
)

// Stage indicates which session operation the error occurred in.
type Stage string

const (
	StageConstruct Stage = "construct" // parsing the SPIR-V word stream
	StageConfigure Stage = "configure" // submitting the flat options record
	StageCompile   Stage = "compile"   // MSL code generation
	StageQuery     Stage = "query"     // state queries on the native compiler
)

// Kind categorizes the error.
type Kind string

const (
	KindInvalidIR         Kind = "invalid_ir"
	KindRejectedOptions   Kind = "rejected_options"
	KindCompilationFailed Kind = "compilation_failed"
	KindInvalidUTF8       Kind = "invalid_utf8"
	KindQueryFailed       Kind = "query_failed"
	KindClosed            Kind = "closed"
	KindUnsupported       Kind = "unsupported"
)

// Error is the structured error type returned by every session
// operation. Code holds the native result code when the failure
// originated on the other side of the boundary.
type Error struct {
	Cause  error
	Stage  Stage
	Kind   Kind
	Code   spirvcross.Code
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Stage))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Code != spirvcross.CodeSuccess {
		b.WriteString(" (native: ")
		b.WriteString(e.Code.String())
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on stage and kind, so callers can test categories with
// errors.Is without comparing details or native codes.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Stage == t.Stage && e.Kind == t.Kind
	}
	return false
}

// Construction creates an error for a rejected SPIR-V word stream.
func Construction(code spirvcross.Code, detail string) *Error {
	return &Error{
		Stage:  StageConstruct,
		Kind:   KindInvalidIR,
		Code:   code,
		Detail: detail,
	}
}

// Configuration creates an error for a rejected options record.
func Configuration(code spirvcross.Code, detail string) *Error {
	return &Error{
		Stage:  StageConfigure,
		Kind:   KindRejectedOptions,
		Code:   code,
		Detail: detail,
	}
}

// Compilation creates an error for a native code-generation failure.
func Compilation(code spirvcross.Code, detail string) *Error {
	return &Error{
		Stage:  StageCompile,
		Kind:   KindCompilationFailed,
		Code:   code,
		Detail: detail,
	}
}

// Encoding creates an error for native output that is not valid UTF-8.
// This is an internal condition, not something callers can correct.
func Encoding(preview []byte) *Error {
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Stage:  StageCompile,
		Kind:   KindInvalidUTF8,
		Code:   spirvcross.CodeUnhandled,
		Detail: "generated source is not valid UTF-8: " + hexPreview(preview),
	}
}

// Query creates an error for a failed native state query.
func Query(code spirvcross.Code, detail string) *Error {
	return &Error{
		Stage:  StageQuery,
		Kind:   KindQueryFailed,
		Code:   code,
		Detail: detail,
	}
}

// Closed creates an error for operations on a released session.
func Closed(stage Stage) *Error {
	return &Error{
		Stage:  stage,
		Kind:   KindClosed,
		Detail: "compiler session is closed",
	}
}

// Unsupported creates an error for unavailable backends or platforms.
func Unsupported(stage Stage, what string) *Error {
	return &Error{
		Stage:  stage,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

const hexDigits = "0123456789abcdef"

func hexPreview(b []byte) string {
	var s strings.Builder
	for _, c := range b {
		s.WriteByte(hexDigits[c>>4])
		s.WriteByte(hexDigits[c&0xf])
	}
	return s.String()
}
