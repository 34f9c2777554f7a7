package msl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/spirvcross"
)

// Platform selects the Metal target platform.
type Platform uint8

const (
	PlatformIOS   Platform = 0
	PlatformMacOS Platform = 1
)

// String returns the platform name used in CLI flags.
func (p Platform) String() string {
	if p == PlatformIOS {
		return "ios"
	}
	return "macos"
}

// Version is an MSL language version.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

// MSL versions understood by the wrapped compiler.
var (
	Version1_0 = Version{Major: 1, Minor: 0}
	Version1_1 = Version{Major: 1, Minor: 1}
	Version1_2 = Version{Major: 1, Minor: 2}
	Version2_0 = Version{Major: 2, Minor: 0}
	Version2_1 = Version{Major: 2, Minor: 1}
)

// Raw returns the native base-100 encoding: major*10000 + minor*100 +
// patch, e.g. 1.2 -> 10200. Total over all versions.
func (v Version) Raw() uint32 {
	return uint32(v.Major)*10000 + uint32(v.Minor)*100 + uint32(v.Patch)
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseVersion parses "major.minor" as used by CLI flags.
func ParseVersion(s string) (Version, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return Version{}, fmt.Errorf("msl: version %q is not of the form major.minor", s)
	}
	ma, err := strconv.ParseUint(major, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("msl: version %q: %w", s, err)
	}
	mi, err := strconv.ParseUint(minor, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("msl: version %q: %w", s, err)
	}
	return Version{Major: uint8(ma), Minor: uint8(mi)}, nil
}

// Format is the storage format of a vertex attribute.
type Format uint32

const (
	// FormatOther leaves the attribute's type to the shader.
	FormatOther Format = 0
	// FormatUint8 loads the attribute as 8-bit unsigned data.
	FormatUint8 Format = 1
	// FormatUint16 loads the attribute as 16-bit unsigned data.
	FormatUint16 Format = 2
)

// CompilerVertexOptions configures vertex-stage output transforms.
type CompilerVertexOptions struct {
	// InvertY flips the Y axis of clip-space positions.
	InvertY bool
	// TransformClipSpace remaps the clip-space Z range from [-1, 1] to
	// [0, 1].
	TransformClipSpace bool
}

// CompilerOptions is the single source of truth for compiler-tunable
// behavior. Build it with DefaultOptions, mutate freely, then commit it
// with Compiler.SetOptions.
type CompilerOptions struct {
	// Platform is the Metal target platform.
	Platform Platform
	// Version is the target MSL version.
	Version Version
	// Vertex holds vertex-stage options.
	Vertex CompilerVertexOptions

	// SwizzleBufferIndex is the buffer slot for the swizzle constants.
	SwizzleBufferIndex uint32
	// IndirectParamsBufferIndex is the buffer slot for indirect params.
	IndirectParamsBufferIndex uint32
	// OutputBufferIndex is the buffer slot for captured shader output.
	OutputBufferIndex uint32
	// PatchOutputBufferIndex is the buffer slot for patch output.
	PatchOutputBufferIndex uint32
	// TessellationFactorBufferIndex is the buffer slot for tessellation
	// factors.
	TessellationFactorBufferIndex uint32
	// BufferSizeBufferIndex is the buffer slot for buffer sizes.
	BufferSizeBufferIndex uint32

	// EnablePointSizeBuiltin emits the point-size built-in.
	EnablePointSizeBuiltin bool
	// EnableRasterization keeps rasterization on. Stored inverted in
	// the flat record.
	EnableRasterization bool
	// CaptureOutputToBuffer redirects shader output into a buffer.
	CaptureOutputToBuffer bool
	// SwizzleTextureSamples rewrites texture samples through the
	// swizzle buffer.
	SwizzleTextureSamples bool
	// TessellationDomainOriginLowerLeft places the tessellation domain
	// origin in the lower left.
	TessellationDomainOriginLowerLeft bool
	// EnableArgumentBuffers uses Metal argument buffers (MSL 2.0+).
	EnableArgumentBuffers bool
	// PadFragmentOutputComponents pads fragment output to the render
	// pass component count.
	PadFragmentOutputComponents bool

	// ResourceBindingOverrides redirects logical bindings to explicit
	// Metal slots.
	ResourceBindingOverrides ResourceBindingOverrides
	// VertexAttributeOverrides redirects vertex inputs to explicit
	// Metal buffer layouts.
	VertexAttributeOverrides VertexAttributeOverrides
}

// DefaultOptions returns the wrapped compiler's documented defaults:
// macOS, MSL 1.2, the conventional descending buffer slots 30..25,
// point-size built-in and rasterization enabled, everything else off,
// and both override tables empty.
func DefaultOptions() CompilerOptions {
	return CompilerOptions{
		Platform:                      PlatformMacOS,
		Version:                       Version1_2,
		SwizzleBufferIndex:            30,
		IndirectParamsBufferIndex:     29,
		OutputBufferIndex:             28,
		PatchOutputBufferIndex:        27,
		TessellationFactorBufferIndex: 26,
		BufferSizeBufferIndex:         25,
		EnablePointSizeBuiltin:        true,
		EnableRasterization:           true,
		ResourceBindingOverrides:      make(ResourceBindingOverrides),
		VertexAttributeOverrides:      make(VertexAttributeOverrides),
	}
}

// asNative projects the scalar settings into the flat options record.
// The override tables translate separately; see overrides.go.
func (o *CompilerOptions) asNative() spirvcross.MSLOptions {
	return spirvcross.MSLOptions{
		VertexInvertY:                o.Vertex.InvertY,
		VertexTransformClipSpace:     o.Vertex.TransformClipSpace,
		Platform:                     uint8(o.Platform),
		Version:                      o.Version.Raw(),
		EnablePointSizeBuiltin:       o.EnablePointSizeBuiltin,
		DisableRasterization:         !o.EnableRasterization,
		SwizzleBufferIndex:           o.SwizzleBufferIndex,
		IndirectParamsBufferIndex:    o.IndirectParamsBufferIndex,
		ShaderOutputBufferIndex:      o.OutputBufferIndex,
		ShaderPatchOutputBufferIndex: o.PatchOutputBufferIndex,
		ShaderTessFactorBufferIndex:  o.TessellationFactorBufferIndex,
		BufferSizeBufferIndex:        o.BufferSizeBufferIndex,
		CaptureOutputToBuffer:        o.CaptureOutputToBuffer,
		SwizzleTextureSamples:        o.SwizzleTextureSamples,
		TessDomainOriginLowerLeft:    o.TessellationDomainOriginLowerLeft,
		ArgumentBuffers:              o.EnableArgumentBuffers,
		PadFragmentOutputComponents:  o.PadFragmentOutputComponents,
	}
}
