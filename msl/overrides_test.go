package msl

import (
	"testing"

	"github.com/gogpu/spirvcross/spirv"
)

func TestVertexAttributeOverrides_ReplaceOnReinsert(t *testing.T) {
	overrides := make(VertexAttributeOverrides)
	overrides[4] = VertexAttribute{BufferID: 1, Stride: 16}
	overrides[4] = VertexAttribute{BufferID: 2, Stride: 32}

	if len(overrides) != 1 {
		t.Fatalf("table size = %d after reinsert, want 1", len(overrides))
	}
	if got := overrides[4].BufferID; got != 2 {
		t.Errorf("BufferID = %d, want the replacement value 2", got)
	}
}

func TestVertexAttributeOverrides_Translate(t *testing.T) {
	builtin := spirv.BuiltInInstanceIndex
	overrides := VertexAttributeOverrides{
		7: {BufferID: 3, Offset: 12, Stride: 24, Step: spirv.StepInstance, Format: FormatUint16},
		0: {BufferID: 1, Stride: 16, BuiltIn: &builtin},
		2: {BufferID: 2, Format: FormatUint8},
	}

	attrs := overrides.translate()
	if len(attrs) != len(overrides) {
		t.Fatalf("translate() returned %d records, want %d", len(attrs), len(overrides))
	}

	wantLocations := []uint32{0, 2, 7}
	for i, want := range wantLocations {
		if attrs[i].Location != want {
			t.Errorf("attrs[%d].Location = %d, want %d (ascending order)", i, attrs[i].Location, want)
		}
	}

	if attrs[0].Builtin != uint32(spirv.BuiltInInstanceIndex) {
		t.Errorf("attrs[0].Builtin = %d, want %d", attrs[0].Builtin, spirv.BuiltInInstanceIndex)
	}
	if attrs[1].Builtin != 0x7fffffff {
		t.Errorf("attrs[1].Builtin = %#x, want the none sentinel 0x7fffffff", attrs[1].Builtin)
	}
	if attrs[1].Format != uint32(FormatUint8) {
		t.Errorf("attrs[1].Format = %d, want %d", attrs[1].Format, FormatUint8)
	}
	if !attrs[2].PerInstance {
		t.Error("attrs[2].PerInstance = false, want true for StepInstance")
	}
	if attrs[0].PerInstance {
		t.Error("attrs[0].PerInstance = true, want false for StepVertex")
	}
}

func TestResourceBindingOverrides_ReplaceOnReinsert(t *testing.T) {
	loc := ResourceBindingLocation{Stage: spirv.ExecutionModelFragment, DescSet: 1, Binding: 2}
	overrides := make(ResourceBindingOverrides)
	overrides[loc] = ResourceBinding{BufferID: 1}
	overrides[loc] = ResourceBinding{BufferID: 9}

	if len(overrides) != 1 {
		t.Fatalf("table size = %d after reinsert, want 1", len(overrides))
	}
	if got := overrides[loc].BufferID; got != 9 {
		t.Errorf("BufferID = %d, want the replacement value 9", got)
	}
}

func TestResourceBindingOverrides_TranslateOrder(t *testing.T) {
	overrides := ResourceBindingOverrides{
		{Stage: spirv.ExecutionModelFragment, DescSet: 0, Binding: 1}: {BufferID: 4},
		{Stage: spirv.ExecutionModelVertex, DescSet: 1, Binding: 0}:   {BufferID: 3},
		{Stage: spirv.ExecutionModelVertex, DescSet: 0, Binding: 2}:   {BufferID: 2},
		{Stage: spirv.ExecutionModelVertex, DescSet: 0, Binding: 0}:   {BufferID: 1},
	}

	bindings := overrides.translate()
	if len(bindings) != len(overrides) {
		t.Fatalf("translate() returned %d records, want %d", len(bindings), len(overrides))
	}

	want := []struct{ stage, set, binding uint32 }{
		{0, 0, 0},
		{0, 0, 2},
		{0, 1, 0},
		{4, 0, 1},
	}
	for i, w := range want {
		got := bindings[i]
		if got.Stage != w.stage || got.DescSet != w.set || got.Binding != w.binding {
			t.Errorf("bindings[%d] = (%d,%d,%d), want (%d,%d,%d)",
				i, got.Stage, got.DescSet, got.Binding, w.stage, w.set, w.binding)
		}
	}
}

func TestResourceBindingOverrides_TranslateFields(t *testing.T) {
	loc := ResourceBindingLocation{Stage: spirv.ExecutionModelGLCompute, DescSet: 2, Binding: 5}
	overrides := ResourceBindingOverrides{
		loc: {BufferID: 10, TextureID: 11, SamplerID: 12},
	}

	bindings := overrides.translate()
	got := bindings[0]
	if got.Stage != 5 {
		t.Errorf("Stage = %d, want 5 (GLCompute)", got.Stage)
	}
	if got.MSLBuffer != 10 || got.MSLTexture != 11 || got.MSLSampler != 12 {
		t.Errorf("slots = (%d,%d,%d), want (10,11,12)", got.MSLBuffer, got.MSLTexture, got.MSLSampler)
	}
}
