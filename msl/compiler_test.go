package msl

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/gogpu/spirvcross/errors"
	"github.com/gogpu/spirvcross/nativetest"
	"github.com/gogpu/spirvcross/spirv"
)

func newTestCompiler(t *testing.T) (*nativetest.Backend, *Compiler) {
	t.Helper()
	backend := nativetest.New()
	compiler, err := NewCompiler(backend, spirv.NewModule(nativetest.MinimalWords()))
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	t.Cleanup(func() { compiler.Close() })
	return backend, compiler
}

func TestCompiler_EndToEnd(t *testing.T) {
	backend, compiler := newTestCompiler(t)

	if err := compiler.SetOptions(DefaultOptions()); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}

	source, err := compiler.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if source == "" {
		t.Fatal("Compile returned empty source")
	}
	if !strings.Contains(source, "metal_stdlib") {
		t.Errorf("source does not look like MSL:\n%s", source)
	}

	if backend.LiveStrings() != 0 {
		t.Errorf("%d native strings still live after Compile, want 0", backend.LiveStrings())
	}
	if backend.Frees() != 1 {
		t.Errorf("Frees() = %d, want exactly 1", backend.Frees())
	}
}

func TestNewCompiler_InvalidIR(t *testing.T) {
	backend := nativetest.New()

	_, err := NewCompiler(backend, spirv.NewModule([]uint32{0xdeadbeef}))
	if err == nil {
		t.Fatal("NewCompiler accepted a truncated module")
	}
	if !stderrors.Is(err, &errors.Error{Stage: errors.StageConstruct, Kind: errors.KindInvalidIR}) {
		t.Errorf("error = %v, want construct/invalid_ir", err)
	}
}

func TestCompiler_CompileBeforeConfigure(t *testing.T) {
	_, compiler := newTestCompiler(t)

	// Never configured: empty override arrays, native defaults apply.
	source, err := compiler.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if source == "" {
		t.Fatal("Compile returned empty source")
	}
}

func TestCompiler_RasterizationRoundTrip(t *testing.T) {
	_, compiler := newTestCompiler(t)

	opts := DefaultOptions()
	opts.EnableRasterization = false
	if err := compiler.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	enabled, err := compiler.IsRasterizationEnabled()
	if err != nil {
		t.Fatalf("IsRasterizationEnabled: %v", err)
	}
	if enabled {
		t.Error("rasterization reported enabled after disabling it")
	}

	opts.EnableRasterization = true
	if err := compiler.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	enabled, err = compiler.IsRasterizationEnabled()
	if err != nil {
		t.Fatalf("IsRasterizationEnabled: %v", err)
	}
	if !enabled {
		t.Error("rasterization reported disabled after re-enabling it")
	}
}

func TestCompiler_OverridesReplacedOnConfigure(t *testing.T) {
	_, compiler := newTestCompiler(t)

	opts := DefaultOptions()
	opts.ResourceBindingOverrides[ResourceBindingLocation{
		Stage: spirv.ExecutionModelVertex, DescSet: 0, Binding: 0,
	}] = ResourceBinding{BufferID: 7}
	if err := compiler.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}

	source, err := compiler.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(source, "binding") {
		t.Errorf("override not forwarded to compile:\n%s", source)
	}

	// Reconfiguring with an empty table must fully discard the old
	// array, not merge.
	if err := compiler.SetOptions(DefaultOptions()); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	source, err = compiler.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if strings.Contains(source, "binding") {
		t.Errorf("stale override survived reconfiguration:\n%s", source)
	}
}

func TestCompiler_ConfigureRejectedKeepsCache(t *testing.T) {
	backend, compiler := newTestCompiler(t)

	opts := DefaultOptions()
	opts.VertexAttributeOverrides[1] = VertexAttribute{BufferID: 2, Stride: 16}
	if err := compiler.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}

	backend.RejectConfigure = true
	err := compiler.SetOptions(DefaultOptions())
	if !stderrors.Is(err, &errors.Error{Stage: errors.StageConfigure, Kind: errors.KindRejectedOptions}) {
		t.Fatalf("error = %v, want configure/rejected_options", err)
	}
	backend.RejectConfigure = false

	// The failed configure must leave the previous override cache in
	// effect.
	source, err := compiler.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(source, "attribute 1") {
		t.Errorf("previous override cache lost after failed configure:\n%s", source)
	}
}

func TestCompiler_EncodingErrorStillFrees(t *testing.T) {
	backend, compiler := newTestCompiler(t)
	backend.EmitInvalidUTF8 = true

	_, err := compiler.Compile()
	if !stderrors.Is(err, &errors.Error{Stage: errors.StageCompile, Kind: errors.KindInvalidUTF8}) {
		t.Fatalf("error = %v, want compile/invalid_utf8", err)
	}

	if backend.LiveStrings() != 0 {
		t.Errorf("%d native strings leaked on the encoding-failure path", backend.LiveStrings())
	}
	if backend.Frees() != 1 {
		t.Errorf("Frees() = %d, want exactly 1", backend.Frees())
	}
}

func TestCompiler_QueryFailure(t *testing.T) {
	backend, compiler := newTestCompiler(t)
	backend.FailQuery = true

	_, err := compiler.IsRasterizationEnabled()
	if !stderrors.Is(err, &errors.Error{Stage: errors.StageQuery, Kind: errors.KindQueryFailed}) {
		t.Errorf("error = %v, want query/query_failed", err)
	}
}

func TestCompiler_Close(t *testing.T) {
	backend, compiler := newTestCompiler(t)

	if err := compiler.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := compiler.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if backend.Releases() != 1 {
		t.Errorf("Releases() = %d, want exactly 1", backend.Releases())
	}

	if _, err := compiler.Compile(); !stderrors.Is(err, &errors.Error{Stage: errors.StageCompile, Kind: errors.KindClosed}) {
		t.Errorf("Compile after Close = %v, want compile/closed", err)
	}
	if err := compiler.SetOptions(DefaultOptions()); !stderrors.Is(err, &errors.Error{Stage: errors.StageConfigure, Kind: errors.KindClosed}) {
		t.Errorf("SetOptions after Close = %v, want configure/closed", err)
	}
	if _, err := compiler.IsRasterizationEnabled(); !stderrors.Is(err, &errors.Error{Stage: errors.StageQuery, Kind: errors.KindClosed}) {
		t.Errorf("IsRasterizationEnabled after Close = %v, want query/closed", err)
	}
}

func TestNewCompiler_NilBackend(t *testing.T) {
	if _, err := NewCompiler(nil, spirv.NewModule(nativetest.MinimalWords())); err == nil {
		t.Fatal("NewCompiler accepted a nil backend")
	}
}
