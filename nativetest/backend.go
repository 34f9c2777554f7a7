package nativetest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/spirvcross"
	"github.com/gogpu/spirvcross/spirv"
)

// headerWords is the SPIR-V header length: magic, version, generator,
// bound, schema.
const headerWords = 5

// MinimalWords returns the smallest word stream the fake accepts: a
// bare SPIR-V 1.0 header.
func MinimalWords() []uint32 {
	return []uint32{spirv.Magic, 0x00010000, 0, 1, 0}
}

// Backend is a fake native compiler. The zero value is not usable; use
// New.
type Backend struct {
	mu        sync.Mutex
	instances map[spirvcross.Handle]*instance
	live      map[*ownedString]bool
	next      spirvcross.Handle
	frees     int
	releases  int
	lastError string

	// RejectConfigure makes Configure fail, as a native build does for
	// unsupported option combinations.
	RejectConfigure bool
	// EmitInvalidUTF8 makes Compile return bytes that do not decode.
	EmitInvalidUTF8 bool
	// FailQuery makes RasterizationDisabled fail.
	FailQuery bool
}

type instance struct {
	words      []uint32
	opts       spirvcross.MSLOptions
	configured bool
}

type ownedString struct {
	data []byte
}

func (s *ownedString) Bytes() []byte { return s.data }

// New creates an empty fake backend.
func New() *Backend {
	return &Backend{
		instances: make(map[spirvcross.Handle]*instance),
		live:      make(map[*ownedString]bool),
		next:      1,
	}
}

// Construct accepts any word stream with a full header and the SPIR-V
// magic in word zero.
func (b *Backend) Construct(words []uint32) (spirvcross.Handle, spirvcross.Code) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(words) < headerWords || words[0] != spirv.Magic {
		b.lastError = "invalid SPIR-V module"
		return 0, spirvcross.CodeCompilationError
	}

	h := b.next
	b.next++
	b.instances[h] = &instance{words: words}
	return h, spirvcross.CodeSuccess
}

// Configure records opts as the instance's effective options.
func (b *Backend) Configure(h spirvcross.Handle, opts *spirvcross.MSLOptions) spirvcross.Code {
	b.mu.Lock()
	defer b.mu.Unlock()

	inst, ok := b.instances[h]
	if !ok {
		b.lastError = "unknown compiler handle"
		return spirvcross.CodeUnhandled
	}
	if b.RejectConfigure {
		b.lastError = "unsupported option combination"
		return spirvcross.CodeCompilationError
	}
	inst.opts = *opts
	inst.configured = true
	return spirvcross.CodeSuccess
}

// Compile renders a deterministic MSL-shaped source reflecting the
// effective options and the override records it was handed.
func (b *Backend) Compile(h spirvcross.Handle, attrs []spirvcross.VertexAttr, bindings []spirvcross.ResourceBinding) (spirvcross.String, spirvcross.Code) {
	b.mu.Lock()
	defer b.mu.Unlock()

	inst, ok := b.instances[h]
	if !ok {
		b.lastError = "unknown compiler handle"
		return nil, spirvcross.CodeUnhandled
	}

	var data []byte
	if b.EmitInvalidUTF8 {
		data = []byte{0xff, 0xfe, 0xfd}
	} else {
		data = []byte(renderSource(inst, attrs, bindings))
	}

	s := &ownedString{data: data}
	b.live[s] = true
	return s, spirvcross.CodeSuccess
}

// FreeString releases a Compile result. Freeing a string twice, or one
// this backend never produced, is reported as unhandled.
func (b *Backend) FreeString(s spirvcross.String) spirvcross.Code {
	b.mu.Lock()
	defer b.mu.Unlock()

	os, ok := s.(*ownedString)
	if !ok || !b.live[os] {
		b.lastError = "free of unknown string"
		return spirvcross.CodeUnhandled
	}
	delete(b.live, os)
	os.data = nil
	b.frees++
	return spirvcross.CodeSuccess
}

// RasterizationDisabled reports the configured flag; unconfigured
// instances report the compiler default (false).
func (b *Backend) RasterizationDisabled(h spirvcross.Handle) (bool, spirvcross.Code) {
	b.mu.Lock()
	defer b.mu.Unlock()

	inst, ok := b.instances[h]
	if !ok || b.FailQuery {
		b.lastError = "rasterization query failed"
		return false, spirvcross.CodeUnhandled
	}
	return inst.opts.DisableRasterization, spirvcross.CodeSuccess
}

// Release destroys an instance. Double release is counted but harmless.
func (b *Backend) Release(h spirvcross.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.instances, h)
	b.releases++
}

// LastError returns the most recent failure message.
func (b *Backend) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastError
}

// Frees returns how many strings were released.
func (b *Backend) Frees() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frees
}

// LiveStrings returns how many compile results are still unreleased.
func (b *Backend) LiveStrings() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Releases returns how many handles were destroyed.
func (b *Backend) Releases() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.releases
}

func renderSource(inst *instance, attrs []spirvcross.VertexAttr, bindings []spirvcross.ResourceBinding) string {
	platform := "macos"
	if inst.opts.Platform == 0 {
		platform = "ios"
	}
	version := inst.opts.Version
	if !inst.configured {
		platform = "macos"
		version = 10200
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "// cross-compiled for %s, MSL %d\n", platform, version)
	if inst.opts.DisableRasterization {
		sb.WriteString("// rasterization disabled\n")
	}
	sb.WriteString("#include <metal_stdlib>\n#include <simd/simd.h>\n\nusing namespace metal;\n")
	for _, a := range attrs {
		fmt.Fprintf(&sb, "// attribute %d -> buffer %d offset %d stride %d\n",
			a.Location, a.MSLBuffer, a.MSLOffset, a.MSLStride)
	}
	for _, r := range bindings {
		fmt.Fprintf(&sb, "// binding stage %d set %d binding %d -> buffer %d texture %d sampler %d\n",
			r.Stage, r.DescSet, r.Binding, r.MSLBuffer, r.MSLTexture, r.MSLSampler)
	}
	return sb.String()
}
