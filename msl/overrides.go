package msl

import (
	"sort"

	"github.com/gogpu/spirvcross"
	"github.com/gogpu/spirvcross/spirv"
)

// VertexAttributeLocation identifies a vertex input slot. It is the
// key of the vertex-attribute override table; assigning to an existing
// location replaces the prior attribute wholesale.
type VertexAttributeLocation uint32

// VertexAttribute describes where a vertex input actually lives in
// Metal buffer memory.
type VertexAttribute struct {
	// BufferID is the Metal buffer the attribute is read from.
	BufferID uint32
	// Offset is the byte offset within each element.
	Offset uint32
	// Stride is the byte stride between elements.
	Stride uint32
	// Step selects per-vertex or per-instance advancement.
	Step spirv.VertexAttributeStep
	// Format is the attribute's storage format.
	Format Format
	// BuiltIn tags the attribute as a built-in, or nil for none.
	BuiltIn *spirv.BuiltIn
}

// VertexAttributeOverrides maps attribute locations to explicit Metal
// layouts. The map contract guarantees key uniqueness.
type VertexAttributeOverrides map[VertexAttributeLocation]VertexAttribute

// translate flattens the table into native records in ascending
// location order. The order is deterministic for identical contents.
func (o VertexAttributeOverrides) translate() []spirvcross.VertexAttr {
	if len(o) == 0 {
		return nil
	}
	locations := make([]VertexAttributeLocation, 0, len(o))
	for loc := range o {
		locations = append(locations, loc)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i] < locations[j] })

	attrs := make([]spirvcross.VertexAttr, 0, len(o))
	for _, loc := range locations {
		a := o[loc]
		attrs = append(attrs, spirvcross.VertexAttr{
			Location:    uint32(loc),
			MSLBuffer:   a.BufferID,
			MSLOffset:   a.Offset,
			MSLStride:   a.Stride,
			PerInstance: a.Step == spirv.StepInstance,
			Format:      uint32(a.Format),
			Builtin:     spirv.BuiltInRaw(a.BuiltIn),
		})
	}
	return attrs
}

// ResourceBindingLocation is the composite key of the resource-binding
// override table: the stage a binding applies to plus its descriptor
// set and binding indices.
type ResourceBindingLocation struct {
	Stage   spirv.ExecutionModel
	DescSet uint32
	Binding uint32
}

// less orders locations lexicographically by (stage, set, binding).
func (l ResourceBindingLocation) less(other ResourceBindingLocation) bool {
	if l.Stage != other.Stage {
		return l.Stage < other.Stage
	}
	if l.DescSet != other.DescSet {
		return l.DescSet < other.DescSet
	}
	return l.Binding < other.Binding
}

// ResourceBinding holds the Metal-side slot indices a logical binding
// maps to.
type ResourceBinding struct {
	BufferID  uint32
	TextureID uint32
	SamplerID uint32
}

// ResourceBindingOverrides maps binding locations to explicit Metal
// slots. The map contract guarantees key uniqueness.
type ResourceBindingOverrides map[ResourceBindingLocation]ResourceBinding

// translate flattens the table into native records in ascending
// (stage, set, binding) order.
func (o ResourceBindingOverrides) translate() []spirvcross.ResourceBinding {
	if len(o) == 0 {
		return nil
	}
	locations := make([]ResourceBindingLocation, 0, len(o))
	for loc := range o {
		locations = append(locations, loc)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].less(locations[j]) })

	bindings := make([]spirvcross.ResourceBinding, 0, len(o))
	for _, loc := range locations {
		r := o[loc]
		bindings = append(bindings, spirvcross.ResourceBinding{
			Stage:      loc.Stage.Raw(),
			DescSet:    loc.DescSet,
			Binding:    loc.Binding,
			MSLBuffer:  r.BufferID,
			MSLTexture: r.TextureID,
			MSLSampler: r.SamplerID,
		})
	}
	return bindings
}
