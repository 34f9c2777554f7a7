package msl

import (
	"reflect"
	"testing"
)

func TestVersion_Raw(t *testing.T) {
	tests := []struct {
		version Version
		want    uint32
	}{
		{Version1_0, 10000},
		{Version1_1, 10100},
		{Version1_2, 10200},
		{Version2_0, 20000},
		{Version2_1, 20100},
	}

	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			if got := tt.version.Raw(); got != tt.want {
				t.Errorf("Raw() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1.2", want: Version1_2},
		{in: "2.1", want: Version2_1},
		{in: "2", wantErr: true},
		{in: "a.b", wantErr: true},
		{in: "1.999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultOptions_AsNative(t *testing.T) {
	opts := DefaultOptions()
	raw := opts.asNative()

	if raw.DisableRasterization {
		t.Error("default options must not disable rasterization")
	}
	if !raw.EnablePointSizeBuiltin {
		t.Error("default options must enable the point-size built-in")
	}
	if raw.Platform != 1 {
		t.Errorf("Platform = %d, want 1 (macOS)", raw.Platform)
	}
	if raw.Version != 10200 {
		t.Errorf("Version = %d, want 10200", raw.Version)
	}

	indices := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"swizzle", raw.SwizzleBufferIndex, 30},
		{"indirect params", raw.IndirectParamsBufferIndex, 29},
		{"output", raw.ShaderOutputBufferIndex, 28},
		{"patch output", raw.ShaderPatchOutputBufferIndex, 27},
		{"tess factor", raw.ShaderTessFactorBufferIndex, 26},
		{"buffer size", raw.BufferSizeBufferIndex, 25},
	}
	for _, idx := range indices {
		if idx.got != idx.want {
			t.Errorf("%s buffer index = %d, want %d", idx.name, idx.got, idx.want)
		}
	}

	for _, flag := range []struct {
		name string
		got  bool
	}{
		{"VertexInvertY", raw.VertexInvertY},
		{"VertexTransformClipSpace", raw.VertexTransformClipSpace},
		{"CaptureOutputToBuffer", raw.CaptureOutputToBuffer},
		{"SwizzleTextureSamples", raw.SwizzleTextureSamples},
		{"TessDomainOriginLowerLeft", raw.TessDomainOriginLowerLeft},
		{"ArgumentBuffers", raw.ArgumentBuffers},
		{"PadFragmentOutputComponents", raw.PadFragmentOutputComponents},
	} {
		if flag.got {
			t.Errorf("%s = true, want false by default", flag.name)
		}
	}

	if got := opts.VertexAttributeOverrides.translate(); len(got) != 0 {
		t.Errorf("default vertex attribute overrides translate to %d records, want 0", len(got))
	}
	if got := opts.ResourceBindingOverrides.translate(); len(got) != 0 {
		t.Errorf("default resource binding overrides translate to %d records, want 0", len(got))
	}
}

func TestCompilerOptions_RasterizationInversion(t *testing.T) {
	opts := DefaultOptions()
	opts.EnableRasterization = false

	if raw := opts.asNative(); !raw.DisableRasterization {
		t.Error("EnableRasterization=false must translate to DisableRasterization=true")
	}

	opts.EnableRasterization = true
	if raw := opts.asNative(); raw.DisableRasterization {
		t.Error("EnableRasterization=true must translate to DisableRasterization=false")
	}
}

func TestTranslate_Idempotent(t *testing.T) {
	build := func() CompilerOptions {
		opts := DefaultOptions()
		opts.Platform = PlatformIOS
		opts.Version = Version2_0
		opts.EnableArgumentBuffers = true
		opts.VertexAttributeOverrides[3] = VertexAttribute{BufferID: 1, Offset: 8, Stride: 32}
		opts.VertexAttributeOverrides[1] = VertexAttribute{BufferID: 0, Stride: 16}
		opts.ResourceBindingOverrides[ResourceBindingLocation{DescSet: 0, Binding: 2}] = ResourceBinding{BufferID: 4}
		return opts
	}

	a, b := build(), build()

	rawA, rawB := a.asNative(), b.asNative()
	if !reflect.DeepEqual(rawA, rawB) {
		t.Errorf("flat records differ:\n%+v\n%+v", rawA, rawB)
	}
	if got, want := a.VertexAttributeOverrides.translate(), b.VertexAttributeOverrides.translate(); !reflect.DeepEqual(got, want) {
		t.Errorf("vertex attribute arrays differ:\n%+v\n%+v", got, want)
	}
	if got, want := a.ResourceBindingOverrides.translate(), b.ResourceBindingOverrides.translate(); !reflect.DeepEqual(got, want) {
		t.Errorf("resource binding arrays differ:\n%+v\n%+v", got, want)
	}
}
